package outlook

import "github.com/guilherme-santos/calmeetings/internal"

type outlookEvent struct {
	ID            string              `json:"id"`
	Subject       string              `json:"subject"`
	BodyPreview   string              `json:"bodyPreview"`
	Start         *outlookDateTime    `json:"start"`
	End           *outlookDateTime    `json:"end"`
	Organizer     *outlookRecipient   `json:"organizer"`
	Attendees     []*outlookRecipient `json:"attendees"`
	OnlineMeeting *struct {
		JoinURL string `json:"joinUrl"`
	} `json:"onlineMeeting"`
}

type outlookDateTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
	TimeZone string `json:"timeZone"`
}

type outlookRecipient struct {
	EmailAddress *struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"emailAddress"`
}

func (r *outlookRecipient) address() string {
	if r == nil || r.EmailAddress == nil {
		return ""
	}
	return r.EmailAddress.Address
}

func (t *outlookDateTime) eventTime() internal.EventTime {
	if t == nil {
		return internal.EventTime{}
	}
	return internal.EventTime{
		DateTime: t.DateTime,
		Date:     t.Date,
	}
}

func (ev *outlookEvent) convert() *internal.Event {
	event := &internal.Event{
		ID:          ev.ID,
		Title:       ev.Subject,
		Description: ev.BodyPreview,
		Organizer:   ev.Organizer.address(),
		Start:       ev.Start.eventTime(),
		End:         ev.End.eventTime(),
	}
	if ev.OnlineMeeting != nil {
		event.MeetingLink = ev.OnlineMeeting.JoinURL
	}
	for _, att := range ev.Attendees {
		event.Attendees = append(event.Attendees, att.address())
	}
	return event
}
