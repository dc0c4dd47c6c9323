package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// UntitledEvent is the display title used when an event has no summary.
const UntitledEvent = "Untitled Event"

// Event is a simplified calendar event as consumed by the reminder
// dispatcher. Exactly one of StartDateTime/StartDate is set for events with
// a start; all-day events only carry the date.
type Event struct {
	// Title is the event summary; may be empty.
	Title string

	// StartDateTime is the precise start in RFC3339, empty for all-day
	// events.
	StartDateTime string

	// StartDate is the date-only start (YYYY-MM-DD) for all-day events.
	StartDate string

	// Location is the optional event location.
	Location string
}

// DisplayTitle returns the title with the untitled fallback applied.
func (e Event) DisplayTitle() string {
	if e.Title == "" {
		return UntitledEvent
	}
	return e.Title
}

// DisplayStart derives the human-readable start used in the spoken
// reminder: a local clock time ("9:05 AM") for timed events, the raw date
// for all-day events, empty when the provider sent neither.
func (e Event) DisplayStart(loc *time.Location) string {
	if e.StartDateTime != "" {
		if t, err := time.Parse(time.RFC3339, e.StartDateTime); err == nil {
			if loc != nil {
				t = t.In(loc)
			}
			return t.Format("3:04 PM")
		}
		return e.StartDateTime
	}
	return e.StartDate
}

// toEvent converts a Google Calendar event to the dispatcher's view of it.
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	e := Event{
		Title:    event.Summary,
		Location: event.Location,
	}

	if event.Start != nil {
		e.StartDateTime = event.Start.DateTime
		e.StartDate = event.Start.Date
	}

	return e
}
