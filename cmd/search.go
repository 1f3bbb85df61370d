package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/pipeline"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search places or addresses by name",
	Long: `Run a free-text search around your location and print the matches
with their crowd levels. A search always shows live data.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("search query must not be empty")
		}

		qc, err := queryContextFromFlags()
		if err != nil {
			return err
		}
		// A search always starts from a clean slate, like the web client.
		qc.Category = 0
		qc.Day = -1
		qc.Hour = -1
		qc.ExcludeNoData = false

		agg := pipeline.NewAggregator(crowdy.NewClient())

		var results []pipeline.Location
		var fetchErr error
		_ = spinner.New().
			Title(fmt.Sprintf("Searching for %q...", query)).
			Action(func() {
				results, fetchErr = agg.Search(context.Background(), query, qc)
			}).
			Run()

		if fetchErr != nil {
			return fmt.Errorf("search failed: %w", fetchErr)
		}

		printResults(results, qc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&atFlag, "at", "a", "", "Origin coordinates as lat,lng (defaults to the saved home)")
	searchCmd.Flags().StringVarP(&sortFlag, "sort", "s", "distance", "Sort order: distance or crowd")
	searchCmd.Flags().IntVarP(&limitFlag, "limit", "n", 15, "Maximum places to print (0 for all)")
}
