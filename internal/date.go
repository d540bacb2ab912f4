package internal

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DateFormat = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	DateFormat,
}

// ParseTimestamp parses the ISO-8601 shapes calendar providers emit. Values
// without a zone are read as UTC. Fractional seconds of any length are
// accepted.
func ParseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateRange bounds the start of the events to keep. A zero Start or End
// leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Keep decides whether an event starting at the raw timestamp start survives
// the range. Events whose start cannot be parsed are always kept.
func (r DateRange) Keep(start string) bool {
	if r.IsZero() {
		return true
	}
	t, ok := ParseTimestamp(start)
	if !ok {
		return true
	}
	return r.Contains(t)
}

func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return fmt.Errorf("end %s is before start %s", r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// Timestamp is a flag value accepting either a date (e.g. 2025-03-06) or an
// RFC 3339 date-time.
type Timestamp struct {
	time.Time
	dateOnly bool
}

func (t *Timestamp) Set(v string) error {
	parsed, ok := ParseTimestamp(v)
	if !ok {
		return fmt.Errorf("invalid date %q, expected %s or RFC 3339", v, DateFormat)
	}
	t.Time = parsed
	t.dateOnly = len(strings.TrimSpace(v)) == len(DateFormat)
	return nil
}

func (t *Timestamp) String() string {
	if t == nil || t.IsZero() {
		return ""
	}
	if t.dateOnly {
		return t.Format(DateFormat)
	}
	return t.Format(time.RFC3339)
}

// EndOfDay returns the last instant of the day for date-only values, so that
// an upper bound given as a date includes that whole day.
func (t Timestamp) EndOfDay() time.Time {
	if !t.dateOnly {
		return t.Time
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// UnmarshalJSON accepts the same shapes as Set. null leaves t untouched.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return t.Set(v)
}
