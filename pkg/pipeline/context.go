package pipeline

import (
	"strconv"

	"github.com/ainize-bot/crowdy/pkg/geomath"
)

// SortMode selects the result ordering.
type SortMode string

const (
	SortDistance SortMode = "distance"
	SortCrowd    SortMode = "crowd"
)

// Categories are the selectable place categories, in display order. The
// index doubles as the category value in QueryContext.
var Categories = []string{
	"Supermarket",
	"Shopping Mall",
	"Restaurant",
	"Cafe",
	"Hospital",
	"Pharmacy",
	"Bank",
}

// CategoryQueries expands a category index into the backend query strings it
// stands for. The supermarket category always pairs an implicit grocery-store
// query; everything else maps 1:1.
func CategoryQueries(category int) []string {
	if category < 0 || category >= len(Categories) {
		return nil
	}
	queries := []string{Categories[category]}
	if category == 0 {
		queries = append(queries, "Grocery store")
	}
	return queries
}

// QueryContext carries every user-selected criterion of one pipeline
// invocation. The UI layer owns it; the pipeline treats it as an immutable
// input per call.
type QueryContext struct {
	Category      int
	Day           int // -1 = live data, 0-6 = Sunday-Saturday
	Hour          int // 0-23; -1 (unset) while Day == -1
	ExcludeNoData bool
	Sort          SortMode
	Origin        geomath.Point
	HasOrigin     bool
}

// NewQueryContext returns the session defaults: supermarkets, live data,
// no filtering, nearest first.
func NewQueryContext() QueryContext {
	return QueryContext{
		Category: 0,
		Day:      -1,
		Hour:     -1,
		Sort:     SortDistance,
	}
}

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName returns the display name for a selectable day, with -1 naming the
// live-data mode.
func DayName(day int) string {
	if day == -1 {
		return "Live Data"
	}
	if day < 0 || day > 6 {
		return "?"
	}
	return dayNames[day]
}

// HourName formats an hour of day the way the selector shows it (12 AM,
// 1 AM, ... 12 PM, ... 11 PM). Unset hours render as N/A.
func HourName(hour int) string {
	switch {
	case hour < 0 || hour > 23:
		return "N/A"
	case hour == 0:
		return "12 AM"
	case hour == 12:
		return "12 PM"
	case hour < 12:
		return strconv.Itoa(hour) + " AM"
	default:
		return strconv.Itoa(hour-12) + " PM"
	}
}
