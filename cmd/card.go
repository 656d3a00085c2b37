package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/khrees2412/placement/pkg/models"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an application to the Applied column",
	Example: `  placement add --company "Acme Inc" --role "Software Engineer"
  placement add --company Globex --role Analyst --note "referred by Sam"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		company, _ := cmd.Flags().GetString("company")
		role, _ := cmd.Flags().GetString("role")
		note, _ := cmd.Flags().GetString("note")

		rec, err := application.Create(cmd.Context(), company, role, note)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s at %s (ID: %s)\n", rec.Role, rec.Company, shortID(rec.ID))
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:     "move <id> <status>",
	Short:   "Move an application to another column",
	Example: `  placement move 3f2a PPT`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		status, err := parseStatusArg(args[1])
		if err != nil {
			return err
		}
		rec, err := application.Move(cmd.Context(), args[0], status)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s at %s moved to %s\n", rec.Role, rec.Company, rec.Status)
		return nil
	},
}

var advanceCmd = &cobra.Command{
	Use:   "advance <id>",
	Short: "Move an application to its next stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		rec, err := application.Advance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s at %s moved to %s\n", rec.Role, rec.Company, rec.Status)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <field> [value]",
	Short: "Set a note, date or time on an application",
	Long: `Set one field of an application. Fields:
  applied_note, ppt_note, test_note   free text
  ppt_date, test_date                 YYYY-MM-DD
  ppt_time, test_time                 HH:MM or HH:MM:SS

Use --clear to remove a value.`,
	Example: `  placement update 3f2a ppt_date 2024-06-01
  placement update 3f2a test_note "bring a laptop"
  placement update 3f2a ppt_time --clear`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		clearValue, _ := cmd.Flags().GetBool("clear")
		if clearValue == (len(args) == 3) {
			return fmt.Errorf("give either a value or --clear")
		}

		field, err := models.ParseField(strings.ToLower(args[1]))
		if err != nil {
			return fmt.Errorf("%w (valid: %s)", err, fieldNames())
		}
		var raw string
		if !clearValue {
			raw = args[2]
		}

		rec, err := application.SetField(cmd.Context(), args[0], field, raw)
		if err != nil {
			return err
		}
		printFieldChange(cmd.OutOrStdout(), rec, field)
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note <id> <stage> <value>",
	Short: "Record a note, date or time for a stage",
	Long: `Record something about a stage of an application. The value is stored as
a time if it looks like HH:MM, as a date if it looks like YYYY-MM-DD, and
as the stage note otherwise. The Applied stage only has a note.`,
	Example: `  placement note 3f2a ppt 2024-06-01
  placement note 3f2a ppt 10:30
  placement note 3f2a test "aptitude + coding round"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		stage, err := parseStatusArg(args[1])
		if err != nil {
			return err
		}
		field, rec, err := application.SetStageValue(cmd.Context(), args[0], stage, args[2])
		if err != nil {
			return err
		}
		printFieldChange(cmd.OutOrStdout(), rec, field)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an application",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		rec, err := application.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s at %s\n", rec.Role, rec.Company)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show every field of an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		id, err := application.ResolveID(args[0])
		if err != nil {
			return err
		}
		rec, err := application.Store.Get(id)
		if err != nil {
			return err
		}
		printRecord(cmd.OutOrStdout(), rec)
		return nil
	},
}

func parseStatusArg(s string) (models.Status, error) {
	st, err := models.ParseStatus(s)
	if err != nil {
		return "", fmt.Errorf("%w (valid: Applied, PPT, Test)", err)
	}
	return st, nil
}

func fieldNames() string {
	names := make([]string, 0, 7)
	for _, f := range models.Fields() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printFieldChange(w io.Writer, rec models.Record, field models.Field) {
	v, _ := rec.Get(field)
	shown := v.String()
	if v.Absent() {
		shown = "(cleared)"
	}
	fmt.Fprintf(w, "✓ %s at %s: %s = %s\n", rec.Role, rec.Company, field, shown)
}

func printRecord(w io.Writer, rec models.Record) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s at %s", rec.Role, rec.Company)))
	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}
	row("ID:", rec.ID)
	row("Status:", string(rec.Status))
	row("Applied note:", rec.AppliedNote)
	row("PPT note:", rec.PPTNote)
	row("PPT date:", models.FormatDate(rec.PPTDate))
	row("PPT time:", models.FormatTimeOfDay(rec.PPTTime))
	row("Test note:", rec.TestNote)
	row("Test date:", models.FormatDate(rec.TestDate))
	row("Test time:", models.FormatTimeOfDay(rec.TestTime))
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(advanceCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(showCmd)

	// Flags for add command
	addCmd.Flags().String("company", "", "Company name (required)")
	addCmd.Flags().String("role", "", "Role applied for (required)")
	addCmd.Flags().String("note", "", "Note for the Applied stage")
	addCmd.MarkFlagRequired("company")
	addCmd.MarkFlagRequired("role")

	// Flags for update command
	updateCmd.Flags().Bool("clear", false, "Remove the field's value")
}
