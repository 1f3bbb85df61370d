package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ainize-bot/crowdy/pkg/config"
	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/geomath"
	"github.com/ainize-bot/crowdy/pkg/pipeline"
	"github.com/ainize-bot/crowdy/pkg/tui"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var (
	atFlag       string
	categoryFlag string
	dayFlag      int
	hourFlag     int
	excludeFlag  bool
	sortFlag     string
	limitFlag    int
	jsonFlag     bool
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List nearby places with their current crowd levels",
	Long: `Fetch nearby places in a category and print them with their live or
scheduled crowd status, sorted by distance or crowdedness.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		qc, err := queryContextFromFlags()
		if err != nil {
			return err
		}

		agg := pipeline.NewAggregator(crowdy.NewClient())

		var results []pipeline.Location
		var fetchErr error
		_ = spinner.New().
			Title(fmt.Sprintf("Finding %ss near %.4f, %.4f...",
				strings.ToLower(pipeline.Categories[qc.Category]), qc.Origin.Lat, qc.Origin.Lng)).
			Action(func() {
				results, fetchErr = agg.Aggregate(context.Background(), qc)
			}).
			Run()

		if fetchErr != nil {
			return fmt.Errorf("could not fetch places: %w", fetchErr)
		}

		if jsonFlag {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		printResults(results, qc)
		return nil
	},
}

func printResults(results []pipeline.Location, qc pipeline.QueryContext) {
	fmt.Printf("\n--- 📍 %s · %s, %s ---\n",
		pipeline.Categories[qc.Category], pipeline.DayName(qc.Day), pipeline.HourName(qc.Hour))

	if len(results) == 0 {
		fmt.Println("No places found.")
		return
	}

	for i, loc := range results {
		if limitFlag > 0 && i >= limitFlag {
			fmt.Printf("…and %d more (raise --limit to see them)\n", len(results)-i)
			break
		}
		tui.PrintLocationCard(loc, qc.Day)
	}
}

// queryContextFromFlags builds the query from the command line, falling back
// to the saved configuration for origin and category.
func queryContextFromFlags() (pipeline.QueryContext, error) {
	qc := pipeline.NewQueryContext()

	cfg, err := config.Load()
	if err != nil {
		return qc, err
	}

	if categoryFlag != "" {
		idx, err := resolveCategory(categoryFlag)
		if err != nil {
			return qc, err
		}
		qc.Category = idx
	} else if cfg.DefaultCategory >= 0 && cfg.DefaultCategory < len(pipeline.Categories) {
		qc.Category = cfg.DefaultCategory
	}

	if atFlag != "" {
		origin, err := parseLatLng(atFlag)
		if err != nil {
			return qc, err
		}
		qc.Origin = origin
		qc.HasOrigin = true
	} else if lat, lng, ok := cfg.HomeOrigin(); ok {
		qc.Origin = geomath.Point{Lat: lat, Lng: lng}
		qc.HasOrigin = true
	} else {
		return qc, fmt.Errorf("no origin: pass --at \"lat,lng\" or save one via 'crowdy config --set-origin'")
	}

	if dayFlag < -1 || dayFlag > 6 {
		return qc, fmt.Errorf("--day must be -1 (live) or 0 (Sunday) through 6 (Saturday)")
	}
	qc.Day = dayFlag
	if dayFlag != -1 {
		if hourFlag < 0 || hourFlag > 23 {
			return qc, fmt.Errorf("--hour must be 0 through 23 when --day is set")
		}
		qc.Hour = hourFlag
	}

	qc.ExcludeNoData = excludeFlag

	switch sortFlag {
	case "", "distance":
		qc.Sort = pipeline.SortDistance
	case "crowd":
		qc.Sort = pipeline.SortCrowd
	default:
		return qc, fmt.Errorf("--sort must be 'distance' or 'crowd'")
	}

	return qc, nil
}

// resolveCategory accepts either a category index or a (case-insensitive) name.
func resolveCategory(v string) (int, error) {
	if idx, err := strconv.Atoi(v); err == nil {
		if idx < 0 || idx >= len(pipeline.Categories) {
			return 0, fmt.Errorf("category index out of range (0-%d)", len(pipeline.Categories)-1)
		}
		return idx, nil
	}
	for i, name := range pipeline.Categories {
		if strings.EqualFold(name, v) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q (options: %s)", v, strings.Join(pipeline.Categories, ", "))
}

func parseLatLng(v string) (geomath.Point, error) {
	parts := strings.SplitN(v, ",", 2)
	if len(parts) != 2 {
		return geomath.Point{}, fmt.Errorf("expected coordinates as lat,lng")
	}
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return geomath.Point{}, fmt.Errorf("coordinates must be numeric")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geomath.Point{}, fmt.Errorf("coordinates out of range")
	}
	return geomath.Point{Lat: lat, Lng: lng}, nil
}

func init() {
	rootCmd.AddCommand(locationsCmd)
	locationsCmd.Flags().StringVarP(&atFlag, "at", "a", "", "Origin coordinates as lat,lng (defaults to the saved home)")
	locationsCmd.Flags().StringVarP(&categoryFlag, "category", "c", "", "Category name or index (e.g. Supermarket, Cafe)")
	locationsCmd.Flags().IntVarP(&dayFlag, "day", "d", -1, "Day of week, 0=Sunday..6=Saturday, -1 for live data")
	locationsCmd.Flags().IntVar(&hourFlag, "hour", -1, "Hour of day 0-23 (used with --day)")
	locationsCmd.Flags().BoolVarP(&excludeFlag, "exclude-nodata", "x", false, "Hide places without time data")
	locationsCmd.Flags().StringVarP(&sortFlag, "sort", "s", "distance", "Sort order: distance or crowd")
	locationsCmd.Flags().IntVarP(&limitFlag, "limit", "n", 15, "Maximum places to print (0 for all)")
	locationsCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the result set as JSON instead of cards")
}
