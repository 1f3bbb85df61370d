package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/geomath"
	"github.com/ainize-bot/crowdy/pkg/status"
)

// Fetcher is the location-search collaborator. *crowdy.Client satisfies it.
type Fetcher interface {
	FetchLocations(ctx context.Context, category string, latitude, longitude float64) ([]crowdy.LocationInfo, error)
}

// ErrNoOrigin is returned when an aggregation is requested before any origin
// coordinate exists. Callers keep showing whatever they already have.
var ErrNoOrigin = errors.New("no origin coordinates available")

// ErrStaleCycle is returned when a newer aggregation cycle was issued while
// this one was in flight; its results have been discarded.
var ErrStaleCycle = errors.New("aggregation superseded by a newer cycle")

// Aggregator runs aggregation cycles and owns the unfiltered baseline result
// set. Every failure path leaves the previous baseline untouched, preferring
// stale data over an empty flash.
type Aggregator struct {
	fetcher Fetcher

	mu  sync.Mutex
	seq uint64
	all []Location
}

func NewAggregator(fetcher Fetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Aggregate runs one full cycle for the context's category selection:
// concurrent fetches, first-seen merge and dedup, annotation, baseline
// replacement, then filter/sort. It returns the displayable subset.
func (a *Aggregator) Aggregate(ctx context.Context, qc QueryContext) ([]Location, error) {
	queries := CategoryQueries(qc.Category)
	if len(queries) == 0 {
		return nil, fmt.Errorf("unknown category index %d", qc.Category)
	}
	return a.AggregateQueries(ctx, queries, qc)
}

// Search runs a cycle for a free-text query instead of a category.
func (a *Aggregator) Search(ctx context.Context, query string, qc QueryContext) ([]Location, error) {
	return a.AggregateQueries(ctx, []string{query}, qc)
}

// AggregateQueries is the cycle core. The first query is the primary one:
// if it yields no usable rows the cycle aborts and the prior baseline
// survives. Failures of the remaining queries degrade to empty results.
func (a *Aggregator) AggregateQueries(ctx context.Context, queries []string, qc QueryContext) ([]Location, error) {
	if !qc.HasOrigin {
		return nil, ErrNoOrigin
	}

	seq := a.nextSeq()

	// Issue every fetch before awaiting any of them.
	type fetchResult struct {
		rows []crowdy.LocationInfo
		err  error
	}
	results := make([]fetchResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			rows, err := a.fetcher.FetchLocations(ctx, q, qc.Origin.Lat, qc.Origin.Lng)
			results[i] = fetchResult{rows: rows, err: err}
		}(i, q)
	}
	wg.Wait()

	if results[0].err != nil {
		return nil, fmt.Errorf("primary query %q failed: %w", queries[0], results[0].err)
	}

	// Merge preserving first-seen order across queries, dropping later
	// duplicates of the same identity key.
	seen := make(map[string]bool)
	var merged []Location
	for _, res := range results {
		if res.err != nil {
			continue // non-primary failure counts as an empty result
		}
		for _, row := range res.rows {
			loc := newLocation(row)
			if seen[loc.key] {
				continue
			}
			seen[loc.key] = true
			merged = append(merged, loc)
		}
	}

	annotate(merged, qc)

	a.mu.Lock()
	if seq != a.seq {
		a.mu.Unlock()
		return nil, ErrStaleCycle
	}
	a.all = merged
	a.mu.Unlock()

	return Apply(cloneAll(merged), qc), nil
}

// Reapply re-filters and re-sorts the current baseline under new criteria,
// without refetching. Used for day/time, sort and exclude-toggle changes.
func (a *Aggregator) Reapply(qc QueryContext) []Location {
	all := a.All()
	reannotate(all, qc)
	return Apply(all, qc)
}

// All returns a deep copy of the unfiltered baseline.
func (a *Aggregator) All() []Location {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneAll(a.all)
}

func (a *Aggregator) nextSeq() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return a.seq
}

// annotate computes the derived fields of freshly merged records: distance
// from the origin and the resolved status for the selected day/time.
func annotate(locs []Location, qc QueryContext) {
	for i := range locs {
		if locs[i].HasCoords && qc.HasOrigin {
			locs[i].DistanceKm = geomath.DistanceKm(qc.Origin, locs[i].Coords)
			locs[i].DistanceKnown = true
		}
		resolved, level, weight := status.Resolve(locs[i].NowStatus, locs[i].Schedule, qc.Day, qc.Hour)
		locs[i].Status = resolved
		locs[i].Level = level
		locs[i].CrowdWeight = weight
	}
}

// reannotate refreshes only the status fields; distances are a function of
// the origin, which does not change between refetches.
func reannotate(locs []Location, qc QueryContext) {
	for i := range locs {
		resolved, level, weight := status.Resolve(locs[i].NowStatus, locs[i].Schedule, qc.Day, qc.Hour)
		locs[i].Status = resolved
		locs[i].Level = level
		locs[i].CrowdWeight = weight
	}
}

// MappablePoints extracts the coordinates of every geolocatable record, for
// recentring and viewport fitting.
func MappablePoints(locs []Location) []geomath.Point {
	var points []geomath.Point
	for _, loc := range locs {
		if loc.HasCoords {
			points = append(points, loc.Coords)
		}
	}
	return points
}
