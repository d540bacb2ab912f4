package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/identity"
)

func TestClassify(t *testing.T) {
	a := Classify([]string{"user@acme.com", "client@foo.com", "other@bar.com"}, "acme.com")

	assert.Equal(t, []string{"user@acme.com"}, a.Ours)
	assert.ElementsMatch(t, []string{"client@foo.com", "other@bar.com"}, a.Others)
	assert.True(t, a.MultipleDomains)
}

func TestClassify_Partition(t *testing.T) {
	emails := []string{
		"a@acme.com", "b@ACME.com", "a@acme.com",
		"x@foo.com", "x@foo.com", "y@foo.com",
		"", "  ", "no-domain",
	}
	a := Classify(emails, "acme.com")

	assert.Equal(t, []string{"a@acme.com", "b@ACME.com", "a@acme.com"}, a.Ours, "ours keeps duplicates")
	assert.Equal(t, []string{"x@foo.com", "y@foo.com", "no-domain"}, a.Others, "others is deduplicated")
	assert.False(t, a.MultipleDomains, "emails without a domain do not count as a domain")

	for _, o := range a.Others {
		assert.NotContains(t, a.Ours, o)
	}
	covered := len(a.Others) + len(a.Ours)
	assert.Equal(t, 6, covered)
}

func TestClassify_MultipleDomainsFlag(t *testing.T) {
	tests := []struct {
		name   string
		emails []string
		want   bool
	}{
		{"no others", []string{"me@acme.com"}, false},
		{"empty", nil, false},
		{"one domain", []string{"a@foo.com", "b@foo.com"}, false},
		{"case insensitive domain", []string{"a@foo.com", "b@FOO.com"}, false},
		{"two domains", []string{"a@foo.com", "b@bar.com"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Classify(tt.emails, "acme.com")
			assert.Equal(t, tt.want, a.MultipleDomains)
		})
	}
}

func TestClassify_NoDomain(t *testing.T) {
	id, err := identity.FromToken("garbage")
	require.Error(t, err)

	a := Classify([]string{"user@acme.com", "client@foo.com"}, id.Domain)
	assert.Empty(t, a.Ours)
	assert.Equal(t, []string{"user@acme.com", "client@foo.com"}, a.Others)
	assert.True(t, a.MultipleDomains)
	assert.NotNil(t, a.Ours)
}

func TestMeeting(t *testing.T) {
	ev := &internal.Event{
		ID:          "evt-1",
		Title:       "Kickoff",
		Description: "Agenda",
		Organizer:   "user@acme.com",
		MeetingLink: "https://meet.google.com/abc",
		Start:       internal.EventTime{DateTime: "2025-03-06T10:00:00Z"},
		End:         internal.EventTime{Date: "2025-03-07"},
		Attendees:   []string{"user@acme.com", "client@foo.com"},
	}

	m := Meeting(internal.Google, "primary", ev, "acme.com")
	assert.Equal(t, internal.Meeting{
		Provider:          internal.Google,
		CalendarID:        "primary",
		Organizer:         "user@acme.com",
		OurEmails:         []string{"user@acme.com"},
		OthersEmails:      []string{"client@foo.com"},
		IsMultipleDomains: false,
		StartTime:         "2025-03-06T10:00:00Z",
		EndTime:           "2025-03-07",
		MeetingLink:       "https://meet.google.com/abc",
		CalendarMeetingID: "evt-1",
		Title:             "Kickoff",
		Description:       "Agenda",
	}, m)
}

func TestEvents_DateFiltering(t *testing.T) {
	events := []*internal.Event{
		{ID: "before", Start: internal.EventTime{DateTime: "2025-03-05T23:00:00Z"}},
		{ID: "at-start", Start: internal.EventTime{DateTime: "2025-03-06T00:00:00Z"}},
		{ID: "all-day", Start: internal.EventTime{Date: "2025-03-07"}},
		{ID: "at-end", Start: internal.EventTime{DateTime: "2025-03-08T00:00:00Z"}},
		{ID: "after", Start: internal.EventTime{DateTime: "2025-03-08T00:00:01Z"}},
		{ID: "unparseable", Start: internal.EventTime{DateTime: "someday"}},
		{ID: "missing"},
		nil,
	}
	r := internal.DateRange{
		Start: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
	}

	var ids []string
	for _, m := range Events(internal.Outlook, "cal", events, "acme.com", r) {
		ids = append(ids, m.CalendarMeetingID)
	}
	assert.Equal(t, []string{"at-start", "all-day", "at-end", "unparseable", "missing"}, ids)
}

func TestEvents_NoRange(t *testing.T) {
	events := []*internal.Event{
		{ID: "old", Start: internal.EventTime{DateTime: "1999-01-01T00:00:00Z"}},
		{ID: "future", Start: internal.EventTime{DateTime: "2999-01-01T00:00:00Z"}},
	}
	meetings := Events(internal.Google, "cal", events, "", internal.DateRange{})
	assert.Len(t, meetings, 2)
}
