package status

import (
	"testing"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
)

func TestClassify_KnownStatuses(t *testing.T) {
	cases := []struct {
		raw    string
		level  Level
		weight float64
	}{
		{"Not busy", NotBusy, 1},
		{"Usually not busy", NotBusy, 1.5},
		{"Not too busy", NotBusy, 2},
		{"Less busy than usual", NotBusy, 2},
		{"Usually not too busy", NotBusy, 2.5},
		{"A little busy", SlightlyBusy, 3},
		{"Usually a little busy", SlightlyBusy, 3.5},
		{"As busy as it gets", VeryBusy, 4},
		{"Busier than usual", VeryBusy, 4},
		{"Usually as busy as it gets", VeryBusy, 4.5},
		{NoDataStatus, NoData, 5},
	}

	for _, tc := range cases {
		level, weight := Classify(tc.raw)
		if level != tc.level || weight != tc.weight {
			t.Errorf("Classify(%q) = (%v, %v), expected (%v, %v)",
				tc.raw, level, weight, tc.level, tc.weight)
		}
	}
}

func TestClassify_UnknownDefaultsToNoData(t *testing.T) {
	level, weight := Classify("Packed to the rafters")
	if level != NoData || weight != 5 {
		t.Errorf("unknown status should classify as no-data/5, got (%v, %v)", level, weight)
	}
}

func TestResolve_LiveDay(t *testing.T) {
	raw, level, weight := Resolve("A little busy", nil, -1, 0)
	if raw != "A little busy" || level != SlightlyBusy || weight != 3 {
		t.Errorf("expected live status to pass through, got (%q, %v, %v)", raw, level, weight)
	}
}

func TestResolve_LiveDayEmptyNowStatus(t *testing.T) {
	raw, level, _ := Resolve("", nil, -1, 0)
	if raw != NoDataStatus || level != NoData {
		t.Errorf("empty live status should resolve to the no-data sentinel, got (%q, %v)", raw, level)
	}
}

func TestResolve_ScheduledHit(t *testing.T) {
	schedule := map[int][]crowdy.StatusEntry{
		2: {
			{Time: 13, Status: "A little busy"},
			{Time: 14, Status: "Not busy"},
		},
	}

	raw, level, weight := Resolve("Busier than usual", schedule, 2, 14)
	if raw != "Not busy" || level != NotBusy || weight != 1 {
		t.Errorf("expected scheduled Tuesday 14:00 status, got (%q, %v, %v)", raw, level, weight)
	}
}

func TestResolve_NoMatchingHour(t *testing.T) {
	schedule := map[int][]crowdy.StatusEntry{
		2: {{Time: 9, Status: "Not busy"}},
	}

	raw, level, _ := Resolve("Not busy", schedule, 2, 14)
	if raw != NoDataStatus || level != NoData {
		t.Errorf("missing hour entry should resolve to no-data regardless of live status, got (%q, %v)", raw, level)
	}
}

func TestResolve_EmptyScheduledStatus(t *testing.T) {
	schedule := map[int][]crowdy.StatusEntry{
		2: {{Time: 14, Status: ""}},
	}

	raw, _, weight := Resolve("Not busy", schedule, 2, 14)
	if raw != NoDataStatus || weight != 5 {
		t.Errorf("empty scheduled status should resolve to no-data, got (%q, %v)", raw, weight)
	}
}

func TestResolve_DayWithoutSchedule(t *testing.T) {
	raw, level, _ := Resolve("Not busy", map[int][]crowdy.StatusEntry{}, 5, 10)
	if raw != NoDataStatus || level != NoData {
		t.Errorf("day without schedule should resolve to no-data, got (%q, %v)", raw, level)
	}
}
