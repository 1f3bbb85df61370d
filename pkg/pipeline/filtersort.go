package pipeline

import (
	"sort"

	"github.com/ainize-bot/crowdy/pkg/status"
)

// Apply filters and sorts an annotated result set under the given criteria.
// Pure and synchronous: the input slice is left untouched and calling it
// twice with the same inputs yields the same output.
func Apply(all []Location, qc QueryContext) []Location {
	out := make([]Location, 0, len(all))
	for _, loc := range all {
		if qc.ExcludeNoData && !hasUsableData(loc, qc) {
			continue
		}
		out = append(out, loc)
	}

	switch qc.Sort {
	case SortCrowd:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].CrowdWeight != out[j].CrowdWeight {
				return out[i].CrowdWeight < out[j].CrowdWeight
			}
			return sortDistance(out[i]) < sortDistance(out[j])
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return sortDistance(out[i]) < sortDistance(out[j])
		})
	}

	return out
}

// hasUsableData reports whether a record carries real popular-times data for
// the selected day/time. In live mode that means the current snapshot is not
// the no-data sentinel; for a concrete day it means a non-empty entry exists
// at the selected hour.
func hasUsableData(loc Location, qc QueryContext) bool {
	if qc.Day == -1 {
		return loc.NowStatus != "" && loc.NowStatus != status.NoDataStatus
	}
	for _, entry := range loc.Schedule[qc.Day] {
		if entry.Time == qc.Hour && entry.Status != "" {
			return true
		}
	}
	return false
}

// sortDistance orders unknown distances after every known one.
func sortDistance(loc Location) float64 {
	if !loc.DistanceKnown {
		return maxDistance
	}
	return loc.DistanceKm
}

// maxDistance exceeds any real great-circle distance in kilometres.
const maxDistance = 1 << 20
