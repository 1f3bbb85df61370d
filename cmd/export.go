package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/exporter"
	"github.com/ainize-bot/crowdy/pkg/pipeline"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a place's quiet hours to an ICS file",
	Long: `Pick the quietest hour of each of the next seven days for a place and
write them as calendar events, without using the interactive TUI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		place, _ := cmd.Flags().GetString("place")
		output, _ := cmd.Flags().GetString("output")

		qc, err := queryContextFromFlags()
		if err != nil {
			return err
		}

		agg := pipeline.NewAggregator(crowdy.NewClient())

		var results []pipeline.Location
		var fetchErr error
		_ = spinner.New().
			Title(fmt.Sprintf("Looking up %q...", place)).
			Action(func() {
				results, fetchErr = agg.Search(context.Background(), place, qc)
			}).
			Run()

		if fetchErr != nil {
			return fmt.Errorf("failed to look up place: %w", fetchErr)
		}

		match, ok := bestScheduledMatch(results, place)
		if !ok {
			return fmt.Errorf("no place with popular times data matched %q", place)
		}

		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()

		if err := exporter.GenerateQuietHoursICS(match, file); err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported quiet hours for %s to %s\n", match.Name, output)
		return nil
	},
}

// bestScheduledMatch prefers an exact (case-insensitive) name match, then the
// first result that carries a weekly schedule.
func bestScheduledMatch(results []pipeline.Location, place string) (pipeline.Location, bool) {
	for _, loc := range results {
		if strings.EqualFold(loc.Name, place) && len(loc.Schedule) > 0 {
			return loc, true
		}
	}
	for _, loc := range results {
		if len(loc.Schedule) > 0 {
			return loc, true
		}
	}
	return pipeline.Location{}, false
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("place", "p", "", "Place name to export (e.g. \"FairPrice Bedok\")")
	exportCmd.Flags().StringP("output", "o", "quiet-hours.ics", "Output file path")
	exportCmd.Flags().StringVarP(&atFlag, "at", "a", "", "Origin coordinates as lat,lng (defaults to the saved home)")
	exportCmd.MarkFlagRequired("place")
}
