// Package normalize turns provider events into meetings, classifying the
// attendees by organizational domain.
package normalize

import (
	"strings"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/identity"
)

// Attendees is the result of classifying the attendee emails of an event.
type Attendees struct {
	// Ours keeps the emails sharing the caller's domain, as received.
	Ours []string
	// Others holds every other email once, in first-seen order.
	Others []string
	// MultipleDomains is set when Others spans more than one domain.
	MultipleDomains bool
}

// Classify splits emails by comparing their domain with domain. An empty
// domain matches nothing, so every attendee ends up in Others.
func Classify(emails []string, domain string) Attendees {
	a := Attendees{
		Ours:   []string{},
		Others: []string{},
	}
	domain = strings.ToLower(domain)

	seen := make(map[string]struct{})
	domains := make(map[string]struct{})
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		d := identity.Domain(email)
		if domain != "" && d == domain {
			a.Ours = append(a.Ours, email)
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		a.Others = append(a.Others, email)
		if d != "" {
			domains[d] = struct{}{}
		}
	}
	a.MultipleDomains = len(domains) > 1
	return a
}

// Meeting maps a single event. Missing fields stay empty strings.
func Meeting(provider internal.ProviderKey, calendarID string, ev *internal.Event, domain string) internal.Meeting {
	attendees := Classify(ev.Attendees, domain)
	return internal.Meeting{
		Provider:          provider,
		CalendarID:        calendarID,
		Organizer:         ev.Organizer,
		OurEmails:         attendees.Ours,
		OthersEmails:      attendees.Others,
		IsMultipleDomains: attendees.MultipleDomains,
		StartTime:         ev.Start.String(),
		EndTime:           ev.End.String(),
		MeetingLink:       ev.MeetingLink,
		CalendarMeetingID: ev.ID,
		Title:             ev.Title,
		Description:       ev.Description,
	}
}

// Events maps the events of a calendar, dropping those starting outside r.
func Events(provider internal.ProviderKey, calendarID string, events []*internal.Event, domain string, r internal.DateRange) []internal.Meeting {
	meetings := make([]internal.Meeting, 0, len(events))
	for _, ev := range events {
		if ev == nil || !r.Keep(ev.Start.String()) {
			continue
		}
		meetings = append(meetings, Meeting(provider, calendarID, ev, domain))
	}
	return meetings
}
