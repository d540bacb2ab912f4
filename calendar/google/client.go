package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/bearer"
)

const DefaultBaseURL = "https://www.googleapis.com/calendar/v3"

func Schema(baseURL string) internal.Schema {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return internal.Schema{
		Key:                internal.Google,
		BaseURL:            strings.TrimSuffix(baseURL, "/"),
		CalendarsEndpoint:  "/users/me/calendarList",
		EventsEndpoint:     "/calendars/{calendarId}/events",
		ListKey:            "items",
		MeetingLinkField:   "hangoutLink",
		AttendeeEmailField: "email",
		OrganizerField:     "organizer.email",
		AttendeesField:     "attendees",
		TitleField:         "summary",
		DescriptionField:   "description",
	}
}

// Client reads calendars through the Google Calendar v3 API using the
// caller's access token.
type Client struct {
	httpClient *http.Client
	schema     internal.Schema
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		schema:     Schema(baseURL),
	}
}

func (c *Client) Schema() internal.Schema {
	return c.schema
}

func (c *Client) Calendars(ctx context.Context, token string) ([]string, error) {
	svc, err := c.calendarSvc(ctx, token)
	if err != nil {
		return nil, err
	}
	list, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, upstreamErr("list calendars", err)
	}

	ids := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		if item != nil && item.Id != "" {
			ids = append(ids, item.Id)
		}
	}
	return ids, nil
}

// Events lists the events of calendarID with recurring events expanded into
// single instances, ordered by start time and bounded by r on Google's side.
func (c *Client) Events(ctx context.Context, token, calendarID string, r internal.DateRange) ([]*internal.Event, error) {
	svc, err := c.calendarSvc(ctx, token)
	if err != nil {
		return nil, err
	}
	call := svc.Events.
		List(calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime")
	if !r.Start.IsZero() {
		call = call.TimeMin(r.Start.Format(time.RFC3339))
	}
	if !r.End.IsZero() {
		call = call.TimeMax(r.End.Format(time.RFC3339Nano))
	}

	events, err := call.Do()
	if err != nil {
		return nil, upstreamErr("list events", err)
	}

	res := make([]*internal.Event, 0, len(events.Items))
	for _, item := range events.Items {
		if item != nil {
			res = append(res, newEvent(item))
		}
	}
	return res, nil
}

func (c *Client) calendarSvc(ctx context.Context, token string) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx,
		option.WithHTTPClient(bearer.Client(ctx, c.httpClient, token)),
		option.WithEndpoint(c.schema.BaseURL+"/"),
	)
	if err != nil {
		return nil, fmt.Errorf("google: creating calendar service: %w", err)
	}
	return svc, nil
}

func upstreamErr(op string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &internal.UpstreamHTTPError{
			Provider:   internal.Google,
			Op:         op,
			StatusCode: gErr.Code,
		}
	}
	return fmt.Errorf("google: %s: %w", op, err)
}
