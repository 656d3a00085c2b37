package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/khrees2412/placement/internal/tracker"
	"github.com/khrees2412/placement/pkg/models"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the Applied / PPT / Test board",
	Long: `Show the board. With no --role flag every role is shown; repeat --role to
narrow the board down to the roles you care about.`,
	Example: `  placement board
  placement board --role SWE --role "Data Analyst"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		roles, _ := cmd.Flags().GetStringArray("role")
		printBoard(cmd.OutOrStdout(), application.Store, roles)
		return nil
	},
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles on the board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		printRoles(cmd.OutOrStdout(), application.Store)
		return nil
	},
}

// printBoard renders the records whose role is selected; an empty selection
// means every role.
func printBoard(w io.Writer, store *tracker.Store, roles []string) {
	if store.Len() == 0 {
		fmt.Fprintln(w, "No applications yet. Add one with 'placement add --company <name> --role <role>'")
		return
	}
	if len(roles) == 0 {
		roles = store.ListRoles()
	}
	records := store.FilterByRoles(roles)

	fmt.Fprintln(w, titleStyle.Render("Placement Board"))
	if len(records) == 0 {
		fmt.Fprintf(w, "No applications for %s\n", strings.Join(roles, ", "))
		return
	}
	fmt.Fprintln(w, renderBoard(records))
}

func printRoles(w io.Writer, store *tracker.Store) {
	roles := store.ListRoles()
	if len(roles) == 0 {
		fmt.Fprintln(w, "No roles yet.")
		return
	}
	for _, role := range roles {
		fmt.Fprintf(w, "  • %s (%d)\n", role, len(store.FilterByRoles([]string{role})))
	}
}

// renderBoard lays the three stage columns side by side.
func renderBoard(records []models.Record) string {
	columns := make([]string, 0, 3)
	for _, status := range models.Statuses() {
		cards := tracker.Column(records, status)

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(stageColors[status]).
			Render(fmt.Sprintf("%s (%d)", stageLabel(status), len(cards)))

		parts := []string{header, ""}
		for _, rec := range cards {
			parts = append(parts, renderCard(rec))
		}
		if len(cards) == 0 {
			parts = append(parts, valueStyle.Render("-"))
		}
		columns = append(columns, columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderCard shows the fields of the card's current stage.
func renderCard(rec models.Record) string {
	lines := []string{
		labelStyle.Render(rec.Company),
		rec.Role,
		valueStyle.Render("#" + shortID(rec.ID)),
	}

	note, date, tod := models.StageFields(rec.Status)
	if date != "" {
		when := strings.TrimSpace(fieldText(rec, date) + " " + fieldText(rec, tod))
		if when != "" {
			lines = append(lines, "🗓 "+when)
		}
	}
	if text := fieldText(rec, note); text != "" {
		lines = append(lines, text)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func fieldText(rec models.Record, f models.Field) string {
	v, err := rec.Get(f)
	if err != nil {
		return ""
	}
	return v.String()
}

func init() {
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(rolesCmd)

	boardCmd.Flags().StringArray("role", nil, "Only show this role (repeatable)")
}
