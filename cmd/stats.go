package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/khrees2412/placement/internal/tracker"
	"github.com/khrees2412/placement/pkg/models"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View application statistics and upcoming dates",
	Long:  "Display how many applications sit in each stage and which PPTs and tests are coming up",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := getApp(cmd)
		if err != nil {
			return err
		}

		printStats(cmd.OutOrStdout(), application.Store.List(), time.Now())
		return nil
	},
}

func printStats(w io.Writer, records []models.Record, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No applications yet. Add one with 'placement add --company <name> --role <role>'")
		return
	}

	stats := tracker.Summarize(records)

	fmt.Fprintln(w, titleStyle.Render("Application Statistics"))

	// Overall stats
	fmt.Fprintf(w, "%s\n", labelStyle.Render("Overview"))
	fmt.Fprintf(w, "  Total Applications: %d\n", stats.Total)
	fmt.Fprintf(w, "  Roles: %d\n", stats.Roles)

	// Stage breakdown
	fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Stage Breakdown"))
	for _, status := range models.Statuses() {
		count := stats.ByStatus[status]
		percentage := float64(count) / float64(stats.Total) * 100
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", stageLabel(status), count, percentage)
	}

	upcoming := tracker.Upcoming(records, now)
	if len(upcoming) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Upcoming"))
	for _, ap := range upcoming {
		when := ap.Date.Format("Mon Jan 2")
		if ap.Time != nil {
			when += " " + ap.Time.Format("15:04")
		}
		fmt.Fprintf(w, "  %s  %s %s at %s\n", when, ap.Stage, ap.Role, ap.Company)
		if ap.Note != "" {
			fmt.Fprintf(w, "    %s\n", valueStyle.Render(ap.Note))
		}
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
