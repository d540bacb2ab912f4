package outlook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/bearer"
)

const DefaultBaseURL = "https://graph.microsoft.com/v1.0/me"

func Schema(baseURL string) internal.Schema {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return internal.Schema{
		Key:                internal.Outlook,
		BaseURL:            strings.TrimSuffix(baseURL, "/"),
		CalendarsEndpoint:  "/calendars",
		EventsEndpoint:     "/calendars/{calendarId}/events",
		ListKey:            "value",
		MeetingLinkField:   "onlineMeeting.joinUrl",
		AttendeeEmailField: "emailAddress.address",
		OrganizerField:     "organizer.emailAddress.address",
		AttendeesField:     "attendees",
		TitleField:         "subject",
		DescriptionField:   "bodyPreview",
	}
}

// Client reads calendars through Microsoft Graph. Graph is queried without
// any filter, date ranges are applied by the caller.
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
	var result struct {
		Value []struct {
			ID string `json:"id"`
		} `json:"value"`
	}
	if err := c.get(ctx, token, "list calendars", c.schema.CalendarsURL(), &result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Value))
	for _, cal := range result.Value {
		if cal.ID != "" {
			ids = append(ids, cal.ID)
		}
	}
	return ids, nil
}

func (c *Client) Events(ctx context.Context, token, calendarID string, _ internal.DateRange) ([]*internal.Event, error) {
	var result struct {
		Value []outlookEvent `json:"value"`
	}
	if err := c.get(ctx, token, "list events", c.schema.EventsURL(calendarID), &result); err != nil {
		return nil, err
	}

	events := make([]*internal.Event, len(result.Value))
	for i := range result.Value {
		events[i] = result.Value[i].convert()
	}
	return events, nil
}

func (c *Client) get(ctx context.Context, token, op, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("outlook: %s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)

	resp, err := bearer.Client(ctx, c.httpClient, token).Do(req)
	if err != nil {
		return fmt.Errorf("outlook: %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &internal.UpstreamHTTPError{
			Provider:   internal.Outlook,
			Op:         op,
			StatusCode: resp.StatusCode,
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("outlook: %s: decoding response: %w", op, err)
	}
	return nil
}
