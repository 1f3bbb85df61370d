package exporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ainize-bot/crowdy/pkg/crowdy"
	"github.com/ainize-bot/crowdy/pkg/pipeline"
)

func TestGenerateQuietHoursICS(t *testing.T) {
	loc := pipeline.Location{
		Name:    "FairPrice Xtra",
		Address: "1 Serangoon Road",
		Schedule: map[int][]crowdy.StatusEntry{
			// Same schedule every day so the test is independent of the
			// weekday it runs on.
			0: weekdaySchedule(), 1: weekdaySchedule(), 2: weekdaySchedule(),
			3: weekdaySchedule(), 4: weekdaySchedule(), 5: weekdaySchedule(),
			6: weekdaySchedule(),
		},
	}

	var buf bytes.Buffer
	if err := GenerateQuietHoursICS(loc, &buf); err != nil {
		t.Fatalf("GenerateQuietHoursICS failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "SUMMARY:Quiet hour at FairPrice Xtra") {
		t.Errorf("expected ICS to contain the quiet-hour summary, got:\n%s", output)
	}
	if !strings.Contains(output, "LOCATION:1 Serangoon Road") {
		t.Errorf("expected ICS to contain the address")
	}

	// 7 days of identical schedules -> 7 events.
	if got := strings.Count(output, "BEGIN:VEVENT"); got != 7 {
		t.Errorf("expected 7 events, got %d", got)
	}

	// The least busy entry below is at 08:00 ("Not busy", weight 1).
	if hour, ok := quietestHour(loc, 2); !ok || hour != 8 {
		t.Errorf("expected 08:00 as the quietest hour, got %d (ok=%v)", hour, ok)
	}
}

func TestQuietestHour_SkipsEmptyStatuses(t *testing.T) {
	loc := pipeline.Location{
		Schedule: map[int][]crowdy.StatusEntry{
			4: {
				{Time: 9, Status: ""},
				{Time: 15, Status: "Usually a little busy"},
			},
		},
	}

	if hour, ok := quietestHour(loc, 4); !ok || hour != 15 {
		t.Errorf("expected 15:00, got %d (ok=%v)", hour, ok)
	}
	if _, ok := quietestHour(loc, 5); ok {
		t.Error("day without schedule must yield no quiet hour")
	}
}

func weekdaySchedule() []crowdy.StatusEntry {
	return []crowdy.StatusEntry{
		{Time: 8, Status: "Not busy"},
		{Time: 12, Status: "As busy as it gets"},
		{Time: 18, Status: "A little busy"},
		{Time: 22, Status: ""}, // no data, never the quiet hour
	}
}

func TestGenerateQuietHoursICS_NoData(t *testing.T) {
	loc := pipeline.Location{Name: "Mystery Mart"}

	var buf bytes.Buffer
	if err := GenerateQuietHoursICS(loc, &buf); err == nil {
		t.Fatal("expected an error for a location without popular-times data")
	}
}
