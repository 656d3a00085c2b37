package cmd

import (
	"fmt"

	"github.com/khrees2412/placement/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:         "show",
	Short:       "Display current configuration",
	Annotations: map[string]string{boardAnnotation: boardNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}
		cfg := application.Config
		w := cmd.OutOrStdout()

		fmt.Fprintln(w, titleStyle.Render("Configuration"))
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Working Board:"), cfg.DataFile)
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Export File:"), cfg.ExportFile)
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Sheet Backend:"), cfg.SheetBackend)
		switch cfg.SheetBackend {
		case config.BackendNotion:
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Notion Database:"), cfg.NotionDatabaseID)
			// Show if the token is configured (but don't show the actual token)
			if cfg.NotionToken != "" {
				fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Notion Token:"), "✓ Configured")
			} else {
				fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Notion Token:"), "✗ Not configured")
			}
		default:
			fmt.Fprintf(w, "%s %s [%s]\n", labelStyle.Render("Workbook:"), cfg.SheetPath, cfg.SheetTab)
		}
		if cfg.RedisURL != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Board Events:"), "✓ Redis")
		} else {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Board Events:"), "✗ Off")
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Log Level:"), cfg.LogLevel)
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  placement config set --key sheet_backend --value notion
  placement config set --key notion_token --value secret_...
  placement config set --key sheet_tab --value "Summer 2024"
  placement config set --key redis_url --value redis://localhost:6379/0`,
	Annotations: map[string]string{boardAnnotation: boardNone},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" {
			return fmt.Errorf("--key is required")
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("updating config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration updated: %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
