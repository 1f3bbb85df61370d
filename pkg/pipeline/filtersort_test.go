package pipeline

import (
	"reflect"
	"testing"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/status"
)

func annotated(name string, distance float64, known bool, weight float64) Location {
	return Location{
		Name:          name,
		DistanceKm:    distance,
		DistanceKnown: known,
		CrowdWeight:   weight,
		key:           name,
	}
}

func TestApply_DistanceSort(t *testing.T) {
	all := []Location{
		annotated("far", 5.2, true, 1),
		annotated("unknown", 0, false, 1),
		annotated("near", 0.8, true, 4),
		annotated("mid", 2.1, true, 2),
	}

	qc := NewQueryContext()
	qc.Sort = SortDistance

	got := Apply(all, qc)

	names := make([]string, len(got))
	for i, l := range got {
		names[i] = l.Name
	}
	want := []string{"near", "mid", "far", "unknown"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("distance sort order = %v, want %v", names, want)
	}

	// Output is non-decreasing in distance, unknowns last.
	for i := 1; i < len(got); i++ {
		if sortDistance(got[i-1]) > sortDistance(got[i]) {
			t.Errorf("distance order violated at index %d", i)
		}
	}
}

func TestApply_CrowdSortBreaksTiesByDistance(t *testing.T) {
	all := []Location{
		annotated("busy-near", 0.5, true, 4),
		annotated("quiet-far", 9.0, true, 1),
		annotated("quiet-near", 1.0, true, 1),
		annotated("mid", 3.0, true, 3),
	}

	qc := NewQueryContext()
	qc.Sort = SortCrowd

	got := Apply(all, qc)

	names := make([]string, len(got))
	for i, l := range got {
		names[i] = l.Name
	}
	want := []string{"quiet-near", "quiet-far", "mid", "busy-near"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("crowd sort order = %v, want %v", names, want)
	}
}

func TestApply_StableOnEqualKeys(t *testing.T) {
	all := []Location{
		annotated("first", 1.0, true, 2),
		annotated("second", 1.0, true, 2),
		annotated("third", 1.0, true, 2),
	}

	qc := NewQueryContext()
	qc.Sort = SortCrowd

	got := Apply(all, qc)
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Name != want {
			t.Fatalf("equal keys must preserve input order, got %v at %d", got[i].Name, i)
		}
	}
}

func TestApply_Idempotent(t *testing.T) {
	all := []Location{
		annotated("b", 2.0, true, 3),
		annotated("a", 1.0, true, 1),
	}
	qc := NewQueryContext()
	qc.Sort = SortCrowd

	once := Apply(all, qc)
	twice := Apply(all, qc)
	if !reflect.DeepEqual(once, twice) {
		t.Error("Apply must be a pure function of its inputs")
	}

	// Input must not be reordered.
	if all[0].Name != "b" || all[1].Name != "a" {
		t.Error("Apply must not mutate its input slice")
	}
}

func TestApply_ExcludeNoData_LiveMode(t *testing.T) {
	withNow := annotated("has-live", 1, true, 1)
	withNow.NowStatus = "Not busy"
	noData := annotated("no-data", 2, true, 5)
	noData.NowStatus = status.NoDataStatus
	empty := annotated("empty", 3, true, 5)

	qc := NewQueryContext()
	qc.ExcludeNoData = true

	got := Apply([]Location{withNow, noData, empty}, qc)
	if len(got) != 1 || got[0].Name != "has-live" {
		t.Errorf("live-mode filter should keep only records with a real current status, got %+v", got)
	}
}

func TestApply_ExcludeNoData_SelectedDayTime(t *testing.T) {
	// Scenario: day=2 (Tuesday), time=14. An empty-status entry filters
	// out; a "Not busy" entry is kept and resolves to not-busy.
	kept := Location{
		Name:      "kept",
		NowStatus: "Busier than usual",
		Schedule:  map[int][]crowdy.StatusEntry{2: {{Time: 14, Status: "Not busy"}}},
		key:       "kept",
	}
	emptyEntry := Location{
		Name:      "empty-entry",
		NowStatus: "Not busy",
		Schedule:  map[int][]crowdy.StatusEntry{2: {{Time: 14, Status: ""}}},
		key:       "empty-entry",
	}
	wrongHour := Location{
		Name:      "wrong-hour",
		NowStatus: "Not busy",
		Schedule:  map[int][]crowdy.StatusEntry{2: {{Time: 9, Status: "Not busy"}}},
		key:       "wrong-hour",
	}

	qc := NewQueryContext()
	qc.Day = 2
	qc.Hour = 14
	qc.ExcludeNoData = true

	all := []Location{kept, emptyEntry, wrongHour}
	reannotate(all, qc)
	got := Apply(all, qc)

	if len(got) != 1 || got[0].Name != "kept" {
		t.Fatalf("expected only the record with a non-empty Tuesday 14:00 entry, got %+v", got)
	}
	if got[0].Level != status.NotBusy || got[0].Status != "Not busy" {
		t.Errorf("expected resolvedStatus not-busy, got %v (%q)", got[0].Level, got[0].Status)
	}
}

func TestApply_NoFilterPassesThrough(t *testing.T) {
	all := []Location{
		annotated("a", 1, true, 5),
		annotated("b", 2, true, 5),
	}
	qc := NewQueryContext()

	if got := Apply(all, qc); len(got) != len(all) {
		t.Errorf("with excludeNoData=false every record passes, got %d of %d", len(got), len(all))
	}
}

func TestCategoryQueries(t *testing.T) {
	got := CategoryQueries(0)
	if !reflect.DeepEqual(got, []string{"Supermarket", "Grocery store"}) {
		t.Errorf("supermarket category must pair a grocery-store query, got %v", got)
	}

	got = CategoryQueries(2)
	if !reflect.DeepEqual(got, []string{"Restaurant"}) {
		t.Errorf("other categories map 1:1, got %v", got)
	}

	if CategoryQueries(99) != nil {
		t.Error("out-of-range category must yield no queries")
	}
}

func TestDayAndHourNames(t *testing.T) {
	if DayName(-1) != "Live Data" || DayName(2) != "Tuesday" {
		t.Error("unexpected day names")
	}
	cases := map[int]string{0: "12 AM", 5: "5 AM", 12: "12 PM", 13: "1 PM", 23: "11 PM", -1: "N/A"}
	for hour, want := range cases {
		if got := HourName(hour); got != want {
			t.Errorf("HourName(%d) = %q, want %q", hour, got, want)
		}
	}
}
