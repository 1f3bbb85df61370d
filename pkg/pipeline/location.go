// Package pipeline implements the location results pipeline: concurrent
// category queries, merge and dedup, distance/status annotation, filtering
// and sorting, and debounced viewport-driven refetching.
package pipeline

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/geomath"
	"github.com/ainize-bot/crowdy/pkg/status"
)

// Location is one annotated result record. It is built from a wire row once
// per aggregation cycle and never mutated afterwards; a new cycle replaces
// the whole set.
type Location struct {
	Name       string
	Address    string
	Coords     geomath.Point
	HasCoords  bool
	Live       bool
	NowStatus  string
	Schedule   map[int][]crowdy.StatusEntry
	Link       string
	Directions string

	// Derived per aggregation pass.
	DistanceKm    float64
	DistanceKnown bool
	Status        string
	Level         status.Level
	CrowdWeight   float64

	key string
}

// newLocation parses a wire row. Coordinates arrive as strings and are not
// guaranteed to be numeric; rows with unparseable coordinates are kept but
// never placed on the map or given a distance.
func newLocation(row crowdy.LocationInfo) Location {
	loc := Location{
		Name:       row.Name,
		Address:    row.Address,
		Live:       row.Live,
		NowStatus:  row.NowStatus,
		Schedule:   row.AllStatus,
		Link:       row.Link,
		Directions: directionsURL(row.Address),
		key:        identityKey(row),
	}

	lat, latErr := strconv.ParseFloat(row.Latitude, 64)
	lng, lngErr := strconv.ParseFloat(row.Longitude, 64)
	if latErr == nil && lngErr == nil {
		loc.Coords = geomath.Point{Lat: lat, Lng: lng}
		loc.HasCoords = true
	}

	return loc
}

// identityKey is the dedup key: the raw coordinate pair when the feed
// provides one, otherwise the place name. Raw strings are compared so that
// "1.30" and "1.3" from distinct scrapes stay distinct, matching the feed's
// own identity semantics.
func identityKey(row crowdy.LocationInfo) string {
	if row.Longitude != "" && row.Latitude != "" {
		return row.Longitude + "," + row.Latitude
	}
	return row.Name
}

// Key returns the identity key used for deduplication.
func (l Location) Key() string {
	return l.key
}

// DistanceLabel formats the distance for display, with "?" standing in when
// no origin or coordinates were available.
func (l Location) DistanceLabel() string {
	if !l.DistanceKnown {
		return "?"
	}
	return fmt.Sprintf("%.4f km", l.DistanceKm)
}

// Clone returns a structural deep copy, so holders of the baseline snapshot
// are insulated from anything a consumer does to the returned record.
func (l Location) Clone() Location {
	out := l
	if l.Schedule != nil {
		out.Schedule = make(map[int][]crowdy.StatusEntry, len(l.Schedule))
		for day, entries := range l.Schedule {
			copied := make([]crowdy.StatusEntry, len(entries))
			copy(copied, entries)
			out.Schedule[day] = copied
		}
	}
	return out
}

func cloneAll(locs []Location) []Location {
	if locs == nil {
		return nil
	}
	out := make([]Location, len(locs))
	for i, l := range locs {
		out[i] = l.Clone()
	}
	return out
}

func directionsURL(address string) string {
	return "https://www.google.com/maps/dir/?api=1&destination=" + url.QueryEscape(address)
}
