package export

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one VEVENT. All-day events only use the date part of Start and End.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// RenderICS builds an iCalendar feed named name.
func RenderICS(name string, events []CalendarEvent, stamp time.Time) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//AIE Portal//Calendar//EN")
	if name != "" {
		cal.SetName(name)
	}

	for _, ev := range events {
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.AllDay {
			vevent.SetAllDayStartAt(ev.Start)
			// DTEND is exclusive for all-day events.
			vevent.SetAllDayEndAt(ev.End.AddDate(0, 0, 1))
			continue
		}
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
	}

	return []byte(cal.Serialize())
}
