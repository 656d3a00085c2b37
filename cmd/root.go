package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/khrees2412/placement/internal/app"
	"github.com/spf13/cobra"
)

// boardAnnotation controls how a command treats the working document.
const boardAnnotation = "board"

const (
	// boardNone: the command never touches the board.
	boardNone = "none"
	// boardReplace: the command replaces the board, so an unreadable working
	// document is not fatal.
	boardReplace = "replace"
	// boardManual: the command saves only when asked to.
	boardManual = "manual"
)

var rootCmd = &cobra.Command{
	Use:   "placement",
	Short: "Kanban tracker for placement applications",
	Long: `Placement keeps track of your job applications on a three-column board:
Applied, PPT (pre-placement talk) and Test. Every change is written back to
your working board; export, import, push and pull move it between files and
a spreadsheet.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.SetAppInContext(cmd.Context(), application))

		mode := cmd.Annotations[boardAnnotation]
		if mode == boardNone {
			return nil
		}
		if err := application.LoadWorking(); err != nil {
			if mode != boardReplace {
				return fmt.Errorf("loading %s: %w", application.Config.DataFile, err)
			}
			application.Logger.Warn("working board unreadable, starting empty", "path", application.Config.DataFile, "err", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Annotations[boardAnnotation] {
		case boardNone, boardManual:
			return nil
		}
		application := app.GetAppFromContext(cmd.Context())
		if application == nil || !application.Dirty() {
			return nil
		}
		return application.SaveWorking(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := 0
	executed, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render(app.Label(err)+":"), err)
		code = 1
	}

	// Cleanup: close app resources
	if executed != nil {
		if appInstance := app.GetAppFromContext(executed.Context()); appInstance != nil {
			appInstance.Close()
		}
	}

	stop()
	os.Exit(code)
}

// getApp returns the App set up by the root command.
func getApp(cmd *cobra.Command) (*app.App, error) {
	application := app.GetAppFromContext(cmd.Context())
	if application == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return application, nil
}
