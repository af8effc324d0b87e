package calendar

import (
	gcal "google.golang.org/api/calendar/v3"
)

// EventSummary is the flattened event shape handed back to tool handlers and
// the history API. Start and End carry the service's own strings (RFC3339
// timestamps, or plain dates for all-day events); downstream code parses them
// with timeutil and skips entries it cannot parse.
type EventSummary struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Status      string   `json:"status,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

// EventPatch describes a partial update to an existing event. Empty fields
// are left unchanged.
type EventPatch struct {
	Summary     string
	Description string
	Location    string
	Start       string
	End         string
}

// Empty reports whether the patch would change nothing.
func (p EventPatch) Empty() bool {
	return p == EventPatch{}
}

// CalendarInfo describes a calendar the user can access.
type CalendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	TimeZone   string `json:"timeZone,omitempty"`
	Primary    bool   `json:"primary,omitempty"`
	AccessRole string `json:"accessRole,omitempty"`
}

// BusyRange is a busy interval returned by a free/busy query.
type BusyRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FreeBusyInfo holds the busy ranges for one calendar.
type FreeBusyInfo struct {
	Calendar string      `json:"calendar"`
	Busy     []BusyRange `json:"busy,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// toEventSummary flattens a Google Calendar event resource.
func toEventSummary(ev *gcal.Event) EventSummary {
	summary := EventSummary{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		Status:      ev.Status,
	}
	summary.Start = eventTime(ev.Start)
	summary.End = eventTime(ev.End)
	for _, att := range ev.Attendees {
		summary.Attendees = append(summary.Attendees, att.Email)
	}
	return summary
}

// eventTime picks the timestamp out of the service's {dateTime, date} union.
func eventTime(dt *gcal.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}

// toCalendarInfo flattens a calendar list entry.
func toCalendarInfo(entry *gcal.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:         entry.Id,
		Summary:    entry.Summary,
		TimeZone:   entry.TimeZone,
		Primary:    entry.Primary,
		AccessRole: entry.AccessRole,
	}
}
