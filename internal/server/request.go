package server

import (
	"github.com/guilherme-santos/calmeetings/internal"
	"github.com/guilherme-santos/calmeetings/internal/aggregator"
)

// MeetingsRequest is the body of POST /api/meetings. Dates accept the same
// shapes as the CLI flags; a date-only end_date covers the whole day.
type MeetingsRequest struct {
	GoogleToken  string              `json:"google_token" validate:"required_if=IsGoogle true"`
	OutlookToken string              `json:"outlook_token" validate:"required_if=IsOutlook true"`
	IsGoogle     bool                `json:"is_google"`
	IsOutlook    bool                `json:"is_outlook"`
	StartDate    *internal.Timestamp `json:"start_date"`
	EndDate      *internal.Timestamp `json:"end_date"`
}

// Queries lists the providers to read, Google first.
func (r MeetingsRequest) Queries() []aggregator.Query {
	var qs []aggregator.Query
	if r.IsGoogle {
		qs = append(qs, aggregator.Query{Provider: internal.Google, Token: r.GoogleToken})
	}
	if r.IsOutlook {
		qs = append(qs, aggregator.Query{Provider: internal.Outlook, Token: r.OutlookToken})
	}
	return qs
}

func (r MeetingsRequest) Range() internal.DateRange {
	var dr internal.DateRange
	if r.StartDate != nil {
		dr.Start = r.StartDate.Time
	}
	if r.EndDate != nil {
		dr.End = r.EndDate.EndOfDay()
	}
	return dr
}
