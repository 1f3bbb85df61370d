package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ainize-bot/crowdy/pkg/config"
	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/exporter"
	"github.com/ainize-bot/crowdy/pkg/geomath"
	"github.com/ainize-bot/crowdy/pkg/pipeline"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// RunExportTUI guides the user through exporting a quiet-hours calendar for
// one nearby place.
func RunExportTUI() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	crowdy.SetBaseURL(cfg.APIBaseURL)

	qc := pipeline.NewQueryContext()
	if cfg.DefaultCategory >= 0 && cfg.DefaultCategory < len(pipeline.Categories) {
		qc.Category = cfg.DefaultCategory
	}

	if lat, lng, ok := cfg.HomeOrigin(); ok {
		qc.Origin = geomath.Point{Lat: lat, Lng: lng}
		qc.HasOrigin = true
	} else {
		origin, err := promptOrigin()
		if err != nil {
			return err
		}
		qc.Origin = origin
		qc.HasOrigin = true
	}

	var category int = qc.Category
	options := make([]huh.Option[int], len(pipeline.Categories))
	for i, name := range pipeline.Categories {
		options[i] = huh.NewOption(name, i)
	}

	categoryForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which category should the calendar cover?").
				Options(options...).
				Value(&category),
		),
	).WithTheme(GetTheme())

	if err := categoryForm.Run(); err != nil {
		return err
	}
	qc.Category = category

	agg := pipeline.NewAggregator(crowdy.NewClient())

	var results []pipeline.Location
	var fetchErr error
	_ = spinner.New().
		Title("Fetching nearby places...").
		Action(func() {
			results, fetchErr = agg.Aggregate(context.Background(), qc)
		}).
		Run()

	if fetchErr != nil {
		return fmt.Errorf("could not fetch places: %w", fetchErr)
	}
	if len(results) == 0 {
		fmt.Println(faintStyle.Render("No places with time data found near that point."))
		return nil
	}

	// Only places with a weekly schedule can produce quiet hours.
	var candidates []pipeline.Location
	for _, loc := range results {
		if len(loc.Schedule) > 0 {
			candidates = append(candidates, loc)
		}
	}
	if len(candidates) == 0 {
		fmt.Println(faintStyle.Render("None of the nearby places publish popular times."))
		return nil
	}

	locOptions := make([]huh.Option[int], len(candidates))
	for i, loc := range candidates {
		locOptions[i] = huh.NewOption(fmt.Sprintf("%s (~%s)", loc.Name, loc.DistanceLabel()), i)
	}

	var selected int
	locationForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Export quiet hours for which place?").
				Options(locOptions...).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := locationForm.Run(); err != nil {
		return err
	}

	chosen := candidates[selected]
	filename := defaultICSFilename(chosen.Name)

	nameForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output file").
				Value(&filename).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("filename must not be empty")
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := nameForm.Run(); err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filename, err)
	}
	defer f.Close()

	if err := exporter.GenerateQuietHoursICS(chosen, f); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Quiet hours for %s saved to %s\n", chosen.Name, filename)))
	return nil
}

// defaultICSFilename turns a place name into a safe .ics filename.
func defaultICSFilename(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "quiet-hours"
	}
	return slug + ".ics"
}
