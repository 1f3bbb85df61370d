package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ainize-bot/crowdy/pkg/config"
	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/geomath"
	"github.com/ainize-bot/crowdy/pkg/pipeline"
	"github.com/ainize-bot/crowdy/pkg/presence"
	"github.com/ainize-bot/crowdy/pkg/status"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// panStepDegrees is how far one pan action moves the viewport center,
// roughly one kilometre.
const panStepDegrees = 0.01

// fitPadKm pads the viewport fit so edge markers stay visible.
const fitPadKm = 1.0

// session is the state of one interactive explore run: the query context the
// user is editing, the aggregator owning the baseline, and the viewport sync
// driving debounced refetches. Results arrive both from direct actions and
// from the debounce timer goroutine, hence the lock.
type session struct {
	agg  *pipeline.Aggregator
	sync *pipeline.ViewportSync

	mu      sync.Mutex
	qc      pipeline.QueryContext
	results []pipeline.Location
	online  int
}

// RunExploreTUI launches the interactive nearby-places experience.
func RunExploreTUI() error {
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
		// One-time notice, mirroring the web client's geolocation snackbar.
		fmt.Println(errorStyle.Render("No location services available in the terminal."))
		fmt.Println("Enter a starting point, or save one permanently via Settings.")

		origin, err := promptOrigin()
		if err != nil {
			return err
		}
		qc.Origin = origin
		qc.HasOrigin = true
	}

	s := &session{
		agg: pipeline.NewAggregator(crowdy.NewClient()),
		qc:  qc,
	}
	s.sync = pipeline.NewViewportSync(pipeline.DefaultDebounce, s.onViewportSettle)
	defer s.sync.Stop()

	// Cosmetic online-user counter; any failure leaves the count at zero.
	presenceCtx, cancelPresence := context.WithCancel(context.Background())
	defer cancelPresence()
	go s.watchPresence(presenceCtx)

	// Initial load is immediate, like the map's first coords callback.
	s.refetch("Finding uncrowded places near you...")

	for {
		s.render()

		action, err := s.promptAction()
		if err != nil {
			return err
		}

		switch action {
		case "pan-north", "pan-south", "pan-east", "pan-west":
			s.pan(action)
		case "recenter":
			s.recenter()
		case "category":
			if err := s.chooseCategory(); err != nil {
				return err
			}
		case "search":
			if err := s.search(); err != nil {
				return err
			}
		case "daytime":
			if err := s.chooseDayTime(); err != nil {
				return err
			}
		case "toggle-nodata":
			s.mu.Lock()
			s.qc.ExcludeNoData = !s.qc.ExcludeNoData
			s.mu.Unlock()
			s.reapply()
		case "sort":
			if err := s.chooseSort(); err != nil {
				return err
			}
		case "refresh":
			s.refetch("Refreshing...")
		case "quit":
			return nil
		}
	}
}

func promptOrigin() (geomath.Point, error) {
	var coordStr string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Where are you?").
				Description("Coordinates as lat,lng — e.g. 1.3521,103.8198").
				Placeholder("1.3521,103.8198").
				Value(&coordStr).
				Validate(func(v string) error {
					if _, err := parseCoords(v); err != nil {
						return err
					}
					return nil
				}),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return geomath.Point{}, err
	}
	return parseCoords(coordStr)
}

func parseCoords(v string) (geomath.Point, error) {
	parts := strings.SplitN(v, ",", 2)
	if len(parts) != 2 {
		return geomath.Point{}, fmt.Errorf("expected lat,lng")
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

// onViewportSettle runs on the debounce timer goroutine once the viewport
// has been still long enough after a user move.
func (s *session) onViewportSettle(center geomath.Point) {
	s.mu.Lock()
	s.qc.Origin = center
	s.qc.HasOrigin = true
	qc := s.qc
	s.mu.Unlock()

	results, err := s.agg.Aggregate(context.Background(), qc)
	if err != nil {
		// Keep showing the last good state.
		return
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	s.flyToResults(results)
}

// flyToResults recenters the viewport on the new result set. The move is
// flagged programmatic so it never schedules another refetch.
func (s *session) flyToResults(results []pipeline.Location) {
	points := pipeline.MappablePoints(results)
	if len(points) == 0 {
		return
	}
	s.sync.MoveEnd(geomath.Centroid(points), true)
	// A real map widget would also fit this box; the TUI only reports it.
	_ = geomath.BoundingBox(points, fitPadKm)
}

func (s *session) watchPresence(ctx context.Context) {
	client, err := presence.Dial(ctx, currentBaseURL())
	if err != nil {
		return
	}
	defer client.Close()

	client.Listen(ctx, func(n int) {
		s.mu.Lock()
		s.online = n
		s.mu.Unlock()
	})
}

func currentBaseURL() string {
	cfg, err := config.Load()
	if err != nil || cfg.APIBaseURL == "" {
		return "https://crowdy-2020.herokuapp.com"
	}
	return cfg.APIBaseURL
}

// refetch runs a full aggregation cycle right now, outside the debounce.
func (s *session) refetch(title string) {
	s.mu.Lock()
	qc := s.qc
	s.mu.Unlock()

	var results []pipeline.Location
	var err error
	_ = spinner.New().
		Title(title).
		Action(func() {
			results, err = s.agg.Aggregate(context.Background(), qc)
		}).
		Run()

	if err != nil {
		// Fail-soft: prior results stay on screen.
		fmt.Println(faintStyle.Render("Could not refresh; showing the last results."))
		return
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	s.flyToResults(results)
}

// reapply re-filters and re-sorts the cached baseline; no network.
func (s *session) reapply() {
	s.mu.Lock()
	qc := s.qc
	s.mu.Unlock()

	results := s.agg.Reapply(qc)

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
}

func (s *session) pan(direction string) {
	center, ok := s.sync.Center()
	if !ok {
		s.mu.Lock()
		center = s.qc.Origin
		s.mu.Unlock()
	}

	switch direction {
	case "pan-north":
		center.Lat += panStepDegrees
	case "pan-south":
		center.Lat -= panStepDegrees
	case "pan-east":
		center.Lng += panStepDegrees
	case "pan-west":
		center.Lng -= panStepDegrees
	}

	s.sync.MoveEnd(center, false)
	fmt.Println(faintStyle.Render(fmt.Sprintf(
		"Viewport moved to %.4f, %.4f — results refresh once the map settles.", center.Lat, center.Lng)))
}

func (s *session) recenter() {
	s.mu.Lock()
	results := s.results
	s.mu.Unlock()

	if len(pipeline.MappablePoints(results)) == 0 {
		fmt.Println(faintStyle.Render("Nothing to recenter on yet."))
		return
	}
	s.flyToResults(results)
	fmt.Println(faintStyle.Render("Recentered on the current results."))
}

func (s *session) promptAction() (string, error) {
	s.mu.Lock()
	qc := s.qc
	s.mu.Unlock()

	sortLabel := cases.Title(language.English).String(string(qc.Sort))
	excludeLabel := "off"
	if qc.ExcludeNoData {
		excludeLabel = "on"
	}

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Map actions").
				Options(
					huh.NewOption("⬆️ Pan north", "pan-north"),
					huh.NewOption("⬇️ Pan south", "pan-south"),
					huh.NewOption("➡️ Pan east", "pan-east"),
					huh.NewOption("⬅️ Pan west", "pan-west"),
					huh.NewOption("🎯 Recenter on results", "recenter"),
					huh.NewOption(fmt.Sprintf("🏪 Category: %s", pipeline.Categories[qc.Category]), "category"),
					huh.NewOption("🔍 Search places or addresses", "search"),
					huh.NewOption(fmt.Sprintf("🕒 When: %s, %s", pipeline.DayName(qc.Day), pipeline.HourName(qc.Hour)), "daytime"),
					huh.NewOption(fmt.Sprintf("🚫 Exclude no time data: %s", excludeLabel), "toggle-nodata"),
					huh.NewOption(fmt.Sprintf("↕️ Sort by: %s", sortLabel), "sort"),
					huh.NewOption("🔄 Refresh now", "refresh"),
					huh.NewOption("🚪 Quit", "quit"),
				).
				Value(&action),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return action, nil
}

func (s *session) chooseCategory() error {
	s.mu.Lock()
	current := s.qc.Category
	s.mu.Unlock()

	options := make([]huh.Option[int], len(pipeline.Categories))
	for i, name := range pipeline.Categories {
		options[i] = huh.NewOption(name, i)
	}

	selected := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which category?").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if selected == current {
		return nil
	}

	s.mu.Lock()
	s.qc.Category = selected
	s.mu.Unlock()

	s.refetch(fmt.Sprintf("Finding %ss nearby...", strings.ToLower(pipeline.Categories[selected])))
	return nil
}

func (s *session) search() error {
	var query string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search places or addresses").
				Value(&query),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}
	if strings.TrimSpace(query) == "" {
		return nil
	}

	// A search resets the session to its defaults, like the web client.
	s.mu.Lock()
	s.qc.Category = 0
	s.qc.Day = -1
	s.qc.Hour = -1
	s.qc.ExcludeNoData = false
	qc := s.qc
	s.mu.Unlock()

	var results []pipeline.Location
	var err error
	_ = spinner.New().
		Title(fmt.Sprintf("Searching for %q...", query)).
		Action(func() {
			results, err = s.agg.Search(context.Background(), query, qc)
		}).
		Run()

	if err != nil {
		fmt.Println(faintStyle.Render("Search failed; showing the last results."))
		return nil
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	s.flyToResults(results)
	return nil
}

func (s *session) chooseDayTime() error {
	s.mu.Lock()
	day := s.qc.Day
	s.mu.Unlock()

	dayOptions := []huh.Option[int]{huh.NewOption("Live Data", -1)}
	for d := 0; d <= 6; d++ {
		dayOptions = append(dayOptions, huh.NewOption(pipeline.DayName(d), d))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("When do you plan to go?").
				Options(dayOptions...).
				Value(&day),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	hour := -1
	if day != -1 {
		// A concrete day needs an hour; default to the current local hour
		// preselected, as the web client does.
		hourOptions := make([]huh.Option[int], 24)
		for h := 0; h < 24; h++ {
			hourOptions[h] = huh.NewOption(pipeline.HourName(h), h)
		}

		hour = currentHour()
		hourForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[int]().
					Title("At what time?").
					Options(hourOptions...).
					Value(&hour),
			),
		).WithTheme(GetTheme())

		if err := hourForm.Run(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.qc.Day = day
	s.qc.Hour = hour
	s.mu.Unlock()

	s.reapply()
	return nil
}

func (s *session) chooseSort() error {
	s.mu.Lock()
	mode := s.qc.Sort
	s.mu.Unlock()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[pipeline.SortMode]().
				Title("Sort results by").
				Options(
					huh.NewOption("📍 Distance", pipeline.SortDistance),
					huh.NewOption("👥 Crowd", pipeline.SortCrowd),
				).
				Value(&mode),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	s.mu.Lock()
	s.qc.Sort = mode
	s.mu.Unlock()

	s.reapply()
	return nil
}

// render prints the current result set as cards.
func (s *session) render() {
	s.mu.Lock()
	results := s.results
	qc := s.qc
	online := s.online
	s.mu.Unlock()

	fmt.Println(accentStyle.Render(fmt.Sprintf(
		"\n--- 📍 %s · %s, %s ---", pipeline.Categories[qc.Category], pipeline.DayName(qc.Day), pipeline.HourName(qc.Hour))))

	if len(results) == 0 {
		fmt.Println(faintStyle.Render("No places to show yet."))
	}

	for i, loc := range results {
		if i >= 15 {
			fmt.Println(faintStyle.Render(fmt.Sprintf("…and %d more", len(results)-i)))
			break
		}
		PrintLocationCard(loc, qc.Day)
	}

	if online > 0 {
		fmt.Println(faintStyle.Render(fmt.Sprintf("%d user(s) online", online)))
	}
}

// PrintLocationCard renders one result with its status chip and distance.
func PrintLocationCard(loc pipeline.Location, day int) {
	chip := statusStyle(loc.Level).Render(loc.Status)
	live := ""
	if day == -1 && loc.Live {
		live = " " + liveStyle.Render("● LIVE")
	}

	fmt.Printf("• %s%s\n", chip, live)
	fmt.Printf("  %s — ~%s\n", loc.Name, loc.DistanceLabel())
	if loc.Address != "" {
		fmt.Printf("  %s\n", faintStyle.Render(loc.Address))
	}
	fmt.Printf("  %s\n", faintStyle.Render(loc.Directions))
}

func statusStyle(level status.Level) lipgloss.Style {
	switch level {
	case status.NotBusy:
		return notBusyStyle
	case status.SlightlyBusy:
		return slightlyStyle
	case status.VeryBusy:
		return veryBusyStyle
	default:
		return noDataStyle
	}
}

func currentHour() int {
	return time.Now().Hour()
}
