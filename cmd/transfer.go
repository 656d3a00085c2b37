package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the board to a JSON document",
	Example: `  placement export
  placement export --out ~/Downloads/placement_data.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = application.Config.ExportFile
		}
		if err := application.SaveDocument(cmd.Context(), out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d applications to %s\n", application.Store.Len(), out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:         "import <file>",
	Short:       "Replace the board with a JSON document",
	Long:        "Replace the whole board with the applications in a JSON document written by 'placement export'.",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{boardAnnotation: boardReplace},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		if err := application.LoadDocument(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d applications from %s\n", application.Store.Len(), args[0])
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Overwrite the configured sheet with the board",
	Long: `Clear the configured sheet and write every application to it. Edits made
directly on the sheet since the last pull are lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		if err := application.Push(cmd.Context()); err != nil {
			return err
		}
		sh, _ := application.Sheet()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pushed %d applications to %s\n", application.Store.Len(), sh.Name())
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:         "pull",
	Short:       "Replace the board with the configured sheet",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{boardAnnotation: boardReplace},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		if err := application.Pull(cmd.Context()); err != nil {
			return err
		}
		sh, _ := application.Sheet()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pulled %d applications from %s\n", application.Store.Len(), sh.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)

	exportCmd.Flags().String("out", "", "Output file (default: export_file from config)")
}
