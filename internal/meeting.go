package internal

// Meeting is the normalized representation of a provider event.
type Meeting struct {
	Provider          ProviderKey `json:"provider"`
	CalendarID        string      `json:"calendar_id"`
	Organizer         string      `json:"opportunity_name"`
	OurEmails         []string    `json:"our_emails"`
	OthersEmails      []string    `json:"others_emails"`
	IsMultipleDomains bool        `json:"is_multiple_domains"`
	StartTime         string      `json:"start_time"`
	EndTime           string      `json:"end_time"`
	MeetingLink       string      `json:"meeting_link"`
	CalendarMeetingID string      `json:"calendar_meeting_id"`
	Title             string      `json:"title"`
	Description       string      `json:"desc"`
}

// ProviderReport summarizes how the calendars of one provider were read, so
// an empty result can be told apart from a failed one.
type ProviderReport struct {
	Provider        ProviderKey `json:"provider"`
	Calendars       int         `json:"calendars"`
	FailedCalendars int         `json:"failed_calendars"`
	Meetings        int         `json:"meetings"`
	Errors          []string    `json:"errors,omitempty"`
}

func (r ProviderReport) Healthy() bool {
	return len(r.Errors) == 0
}

func (r *ProviderReport) AddError(err error) {
	r.Errors = append(r.Errors, err.Error())
}
