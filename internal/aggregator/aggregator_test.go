package aggregator

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/calmeetings/calendar"
	"github.com/guilherme-santos/calmeetings/calendar/google"
	"github.com/guilherme-santos/calmeetings/calendar/outlook"
	"github.com/guilherme-santos/calmeetings/internal"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func buildJWT(t *testing.T, email string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email}).SignedString([]byte("k"))
	require.NoError(t, err)
	return token
}

type fakeProvider struct {
	key          internal.ProviderKey
	calendars    []string
	calendarsErr error
	events       map[string][]*internal.Event
	eventsErr    map[string]error
	block        bool
	calls        atomic.Int32
}

func (p *fakeProvider) Schema() internal.Schema {
	return internal.Schema{Key: p.key}
}

func (p *fakeProvider) Calendars(ctx context.Context, _ string) ([]string, error) {
	p.calls.Add(1)
	return p.calendars, p.calendarsErr
}

func (p *fakeProvider) Events(ctx context.Context, _, calendarID string, _ internal.DateRange) ([]*internal.Event, error) {
	p.calls.Add(1)
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.events[calendarID], p.eventsErr[calendarID]
}

func newAggregator(t *testing.T, opts Options, providers ...internal.Provider) *Aggregator {
	t.Helper()
	mux, err := calendar.NewMux(providers...)
	require.NoError(t, err)
	return New(discardLogger, mux, opts)
}

func TestMeetings_GoogleScenario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/me/calendarList":
			io.WriteString(w, `{"items": [{"id": "primary"}]}`)
		case "/calendars/primary/events":
			io.WriteString(w, `{"items": [{
				"id": "evt-1",
				"summary": "Sales call",
				"start": {"dateTime": "2025-03-06T10:00:00Z"},
				"end": {"dateTime": "2025-03-06T11:00:00Z"},
				"organizer": {"email": "user@acme.com"},
				"attendees": [{"email": "user@acme.com"}, {"email": "client@foo.com"}, {"email": "other@bar.com"}]
			}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	agg := newAggregator(t, Options{}, google.NewClient(srv.Client(), srv.URL))
	res, err := agg.Meetings(context.Background(), Request{
		Queries: []Query{{Provider: internal.Google, Token: buildJWT(t, "me@acme.com")}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RequestID)
	require.Len(t, res.Meetings, 1)

	m := res.Meetings[0]
	assert.Equal(t, []string{"user@acme.com"}, m.OurEmails)
	assert.ElementsMatch(t, []string{"client@foo.com", "other@bar.com"}, m.OthersEmails)
	assert.True(t, m.IsMultipleDomains)
	assert.Equal(t, "user@acme.com", m.Organizer)
	assert.Equal(t, "primary", m.CalendarID)

	require.Len(t, res.Providers, 1)
	assert.True(t, res.Providers[0].Healthy())
	assert.Equal(t, 1, res.Providers[0].Calendars)
	assert.Equal(t, 1, res.Providers[0].Meetings)
}

func TestMeetings_CalendarListingFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	agg := newAggregator(t, Options{}, outlook.NewClient(srv.Client(), srv.URL))
	res, err := agg.Meetings(context.Background(), Request{
		Queries: []Query{{Provider: internal.Outlook, Token: "tok"}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Meetings)
	assert.NotNil(t, res.Meetings)

	require.Len(t, res.Providers, 1)
	assert.False(t, res.Providers[0].Healthy())
	assert.Equal(t, 0, res.Providers[0].Calendars)
	assert.Contains(t, res.Providers[0].Errors[0], "500")
}

func TestMeetings_OutlookFiltersClientSide(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/calendars":
			io.WriteString(w, `{"value": [{"id": "cal-1"}]}`)
		case "/calendars/cal-1/events":
			io.WriteString(w, `{"value": [
				{"id": "early", "start": {"dateTime": "2025-03-01T09:00:00.0000000"}},
				{"id": "inside", "start": {"dateTime": "2025-03-06T09:00:00.0000000"}},
				{"id": "no-start"}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	agg := newAggregator(t, Options{}, outlook.NewClient(srv.Client(), srv.URL))
	meetings, report, err := agg.Fetch(context.Background(), internal.Outlook, "opaque", internal.DateRange{
		Start: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, report.Healthy())

	var ids []string
	for _, m := range meetings {
		ids = append(ids, m.CalendarMeetingID)
	}
	assert.Equal(t, []string{"inside", "no-start"}, ids)
}

func TestMeetings_UnsupportedProvider(t *testing.T) {
	p := &fakeProvider{key: internal.Google, calendars: []string{"a"}}
	agg := newAggregator(t, Options{}, p)

	_, err := agg.Meetings(context.Background(), Request{
		Queries: []Query{
			{Provider: internal.Google, Token: "tok"},
			{Provider: "yahoo", Token: "tok"},
		},
		Range: internal.DateRange{Start: time.Now()},
	})
	require.Error(t, err)
	assert.True(t, internal.IsUnsupportedProvider(err))
	assert.Zero(t, p.calls.Load(), "no provider is contacted when a key is unknown")

	_, _, err = agg.Fetch(context.Background(), "", "tok", internal.DateRange{})
	assert.True(t, internal.IsUnsupportedProvider(err))
}

func TestMeetings_OneCalendarFails(t *testing.T) {
	p := &fakeProvider{
		key:       internal.Google,
		calendars: []string{"ok", "broken", "empty"},
		events: map[string][]*internal.Event{
			"ok": {{ID: "1"}, {ID: "2"}},
		},
		eventsErr: map[string]error{
			"broken": &internal.UpstreamHTTPError{Provider: internal.Google, Op: "list events", StatusCode: 404},
		},
	}
	agg := newAggregator(t, Options{Workers: 2}, p)

	res, err := agg.Meetings(context.Background(), Request{
		ID:      "req-1",
		Queries: []Query{{Provider: internal.Google, Token: "tok"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "req-1", res.RequestID)
	assert.Len(t, res.Meetings, 2)

	report := res.Providers[0]
	assert.Equal(t, 3, report.Calendars)
	assert.Equal(t, 1, report.FailedCalendars)
	assert.Equal(t, 2, report.Meetings)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "calendar broken")
}

func TestMeetings_MergesProvidersInOrder(t *testing.T) {
	g := &fakeProvider{
		key:       internal.Google,
		calendars: []string{"g1", "g2"},
		events: map[string][]*internal.Event{
			"g1": {{ID: "g1-a"}},
			"g2": {{ID: "g2-a"}, {ID: "g2-b"}},
		},
	}
	o := &fakeProvider{
		key:       internal.Outlook,
		calendars: []string{"o1"},
		events: map[string][]*internal.Event{
			"o1": {{ID: "o1-a"}},
		},
	}
	agg := newAggregator(t, Options{Workers: 1}, g, o)

	res, err := agg.Meetings(context.Background(), Request{
		Queries: []Query{
			{Provider: internal.Google, Token: "g"},
			{Provider: internal.Outlook, Token: "o"},
		},
	})
	require.NoError(t, err)

	var ids []string
	for _, m := range res.Meetings {
		ids = append(ids, m.CalendarMeetingID)
	}
	assert.Equal(t, []string{"g1-a", "g2-a", "g2-b", "o1-a"}, ids)
	assert.Equal(t, internal.Outlook, res.Meetings[3].Provider)
	assert.Len(t, res.Providers, 2)
}

func TestMeetings_SlowCalendarTimesOut(t *testing.T) {
	p := &fakeProvider{key: internal.Outlook, calendars: []string{"slow"}, block: true}
	agg := newAggregator(t, Options{Timeout: 20 * time.Millisecond}, p)

	res, err := agg.Meetings(context.Background(), Request{
		Queries: []Query{{Provider: internal.Outlook, Token: "tok"}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Meetings)
	assert.Equal(t, 1, res.Providers[0].FailedCalendars)
}

func TestMeetings_CallerCancels(t *testing.T) {
	p := &fakeProvider{key: internal.Outlook, calendars: []string{"slow"}, block: true}
	agg := newAggregator(t, Options{Timeout: time.Minute}, p)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := agg.Meetings(ctx, Request{
		Queries: []Query{{Provider: internal.Outlook, Token: "tok"}},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMeetings_RateLimited(t *testing.T) {
	p := &fakeProvider{key: internal.Google, calendars: []string{"a", "b"}}
	agg := newAggregator(t, Options{RateLimits: map[internal.ProviderKey]float64{internal.Google: 20}}, p)

	start := time.Now()
	_, err := agg.Meetings(context.Background(), Request{
		Queries: []Query{{Provider: internal.Google, Token: "tok"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), p.calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond, "three calls at 20/s take at least two intervals")
}

func TestDescribeRange(t *testing.T) {
	start := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "always", describeRange(internal.DateRange{}))
	assert.Equal(t, "2025-03-06T00:00:00Z..+inf", describeRange(internal.DateRange{Start: start}))
	assert.Equal(t, "-inf..2025-03-06T00:00:00Z", describeRange(internal.DateRange{End: start}))
}
