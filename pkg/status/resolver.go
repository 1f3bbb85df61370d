// Package status normalizes the free-form popular-times status strings the
// backend scrapes into a fixed set of crowd levels and sortable weights.
package status

import "github.com/ainize-bot/crowdy/pkg/crowdy"

// NoDataStatus is the sentinel raw status for locations without usable
// popular-times data at the selected day/time.
const NoDataStatus = "No popular times data"

// Level is the normalized crowd category of a raw status string.
type Level int

const (
	NotBusy Level = iota
	SlightlyBusy
	VeryBusy
	NoData
)

func (l Level) String() string {
	switch l {
	case NotBusy:
		return "not-busy"
	case SlightlyBusy:
		return "slightly-busy"
	case VeryBusy:
		return "very-busy"
	default:
		return "no-data"
	}
}

type mapping struct {
	Level  Level
	Weight float64
}

// statusTable is the single source of truth for raw-status classification.
// Weights order "least busy first"; the half-step weights keep the "Usually"
// variants sorting just behind their live counterparts. New status strings
// the feed starts emitting get added here, not in code.
var statusTable = map[string]mapping{
	"Not busy":                   {NotBusy, 1},
	"Usually not busy":           {NotBusy, 1.5},
	"Not too busy":               {NotBusy, 2},
	"Less busy than usual":       {NotBusy, 2},
	"Usually not too busy":       {NotBusy, 2.5},
	"A little busy":              {SlightlyBusy, 3},
	"Usually a little busy":      {SlightlyBusy, 3.5},
	"As busy as it gets":         {VeryBusy, 4},
	"Busier than usual":          {VeryBusy, 4},
	"Usually as busy as it gets": {VeryBusy, 4.5},
	NoDataStatus:                 {NoData, 5},
}

// Classify maps a raw status string to its level and weight. Unknown
// strings classify as no-data with the highest weight; nothing errors.
func Classify(raw string) (Level, float64) {
	if m, ok := statusTable[raw]; ok {
		return m.Level, m.Weight
	}
	return NoData, 5
}

// Weight returns just the crowd weight of a raw status string.
func Weight(raw string) float64 {
	_, w := Classify(raw)
	return w
}

// Resolve determines the effective raw status of a location for the selected
// day and hour, then classifies it. day == -1 selects the live snapshot and
// ignores hour. A day without schedule data, an hour without an entry, or an
// entry with an empty status string all resolve to the no-data sentinel.
func Resolve(nowStatus string, schedule map[int][]crowdy.StatusEntry, day, hour int) (string, Level, float64) {
	raw := NoDataStatus

	if day == -1 {
		if nowStatus != "" {
			raw = nowStatus
		}
	} else {
		for _, entry := range schedule[day] {
			if entry.Time == hour && entry.Status != "" {
				raw = entry.Status
				break
			}
		}
	}

	level, weight := Classify(raw)
	return raw, level, weight
}
