package internal

// Event is a calendar event as read from a provider, before normalization.
type Event struct {
	ID          string
	Title       string
	Description string
	Organizer   string
	MeetingLink string
	Start       EventTime
	End         EventTime
	Attendees   []string
}

// EventTime holds either a precise date-time or an all-day date, exactly as
// the provider sent it.
type EventTime struct {
	DateTime string
	Date     string
}

func (t EventTime) String() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
