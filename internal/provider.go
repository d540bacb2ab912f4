package internal

import (
	"context"
	"net/url"
	"strings"
)

type ProviderKey string

func (k ProviderKey) String() string {
	return string(k)
}

const (
	Google  ProviderKey = "google"
	Outlook ProviderKey = "outlook"
)

// Schema describes how to talk to the REST surface of a provider. The field
// paths document where each meeting attribute lives in the provider's event
// payload; the provider implementations decode them into typed structs.
type Schema struct {
	Key               ProviderKey
	BaseURL           string
	CalendarsEndpoint string
	// EventsEndpoint contains the {calendarId} placeholder.
	EventsEndpoint string
	// ListKey is the JSON key holding the entries of a listing response.
	ListKey string

	MeetingLinkField   string
	AttendeeEmailField string
	OrganizerField     string
	AttendeesField     string
	TitleField         string
	DescriptionField   string
}

func (s Schema) CalendarsURL() string {
	return strings.TrimSuffix(s.BaseURL, "/") + s.CalendarsEndpoint
}

func (s Schema) EventsURL(calendarID string) string {
	path := strings.ReplaceAll(s.EventsEndpoint, "{calendarId}", url.PathEscape(calendarID))
	return strings.TrimSuffix(s.BaseURL, "/") + path
}

type Mux interface {
	Get(key ProviderKey) (Provider, error)
}

// Provider is implemented once per supported calendar platform.
type Provider interface {
	Schema() Schema
	// Calendars lists the identifiers of the calendars visible to token.
	Calendars(ctx context.Context, token string) ([]string, error)
	// Events lists the events of a calendar. Providers able to filter on
	// their side use r to narrow the listing, the others ignore it.
	Events(ctx context.Context, token, calendarID string, r DateRange) ([]*Event, error)
}
