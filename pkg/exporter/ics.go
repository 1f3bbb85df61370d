// Package exporter turns a location's popular-times schedule into calendar
// artifacts.
package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/ainize-bot/crowdy/pkg/pipeline"
	"github.com/ainize-bot/crowdy/pkg/status"

	ics "github.com/arran4/golang-ical"
)

// GenerateQuietHoursICS writes one calendar event per weekday at the
// location's least-busy scheduled hour, for the upcoming seven days.
// Days without any usable popular-times entry are skipped; a location with
// no usable data at all is an error.
func GenerateQuietHoursICS(loc pipeline.Location, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	now := time.Now()
	events := 0

	for offset := 0; offset < 7; offset++ {
		targetDate := now.AddDate(0, 0, offset)
		day := int(targetDate.Weekday())

		hour, ok := quietestHour(loc, day)
		if !ok {
			continue
		}

		eventStart := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(),
			hour, 0, 0, 0, targetDate.Location())
		eventEnd := eventStart.Add(time.Hour)

		event := cal.AddEvent(fmt.Sprintf("%s-quiet-%d", eventStart.Format("20060102"), hour))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(eventStart)
		event.SetEndAt(eventEnd)
		event.SetSummary(fmt.Sprintf("Quiet hour at %s", loc.Name))
		event.SetLocation(loc.Address)
		event.SetDescription(fmt.Sprintf("Usually the least busy hour of %s.\nDirections: %s",
			pipeline.DayName(day), loc.Directions))

		events++
	}

	if events == 0 {
		return fmt.Errorf("no popular times data to export for %q", loc.Name)
	}

	return cal.SerializeTo(w)
}

// quietestHour picks the scheduled hour with the lowest crowd weight on the
// given day. Empty-status entries never qualify.
func quietestHour(loc pipeline.Location, day int) (int, bool) {
	best := -1
	bestWeight := 0.0

	for _, entry := range loc.Schedule[day] {
		if entry.Status == "" {
			continue
		}
		w := status.Weight(entry.Status)
		if best == -1 || w < bestWeight {
			best = entry.Time
			bestWeight = w
		}
	}

	return best, best != -1
}
