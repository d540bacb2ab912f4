package google

import (
	"google.golang.org/api/calendar/v3"

	"github.com/guilherme-santos/calmeetings/internal"
)

func newEvent(event *calendar.Event) *internal.Event {
	ev := &internal.Event{
		ID:          event.Id,
		Title:       event.Summary,
		Description: event.Description,
		MeetingLink: event.HangoutLink,
		Start:       eventTime(event.Start),
		End:         eventTime(event.End),
	}
	if event.Organizer != nil {
		ev.Organizer = event.Organizer.Email
	}
	for _, attendee := range event.Attendees {
		if attendee != nil {
			ev.Attendees = append(ev.Attendees, attendee.Email)
		}
	}
	return ev
}

func eventTime(t *calendar.EventDateTime) internal.EventTime {
	if t == nil {
		return internal.EventTime{}
	}
	return internal.EventTime{
		DateTime: t.DateTime,
		Date:     t.Date,
	}
}
