package event

import (
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/voicekit/calagent/internal/timeutil"
)

// Default reminder policy attached to every created event: a popup shortly
// before the event and an email the day before. The service's own default
// reminders are disabled so only these apply.
const (
	popupReminderMinutes = 10
	emailReminderMinutes = 24 * 60
)

// BuildEvent maps validated flat tool parameters into the nested resource
// shape the Calendar API expects. Optional fields are omitted when absent,
// not set to empty strings. Malformed attendee entries are dropped by
// ParseAttendees rather than failing the call.
func BuildEvent(params map[string]any) *gcal.Event {
	ev := &gcal.Event{
		Status: "confirmed",
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: popupReminderMinutes},
				{Method: "email", Minutes: emailReminderMinutes},
			},
			// UseDefault is false, which encoding/json would drop.
			ForceSendFields: []string{"UseDefault"},
		},
	}

	if summary, ok := params["summary"].(string); ok {
		ev.Summary = summary
	}
	if desc, ok := params["description"].(string); ok && desc != "" {
		ev.Description = desc
	}
	if loc, ok := params["location"].(string); ok && loc != "" {
		ev.Location = loc
	}

	if start, ok := params["start_datetime"].(string); ok {
		ev.Start = toEventDateTime(start)
	}
	if end, ok := params["end_datetime"].(string); ok {
		ev.End = toEventDateTime(end)
	}

	if attendees, ok := params["attendees"].(string); ok {
		for _, email := range ParseAttendees(attendees) {
			ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
		}
	}

	return ev
}

// toEventDateTime converts a normalized date string into the Calendar API's
// {dateTime, timeZone} pair. BuildEvent runs after validation, so a parse
// failure here only happens if callers skip Validate; fall back to the raw
// string and let the service reject it.
func toEventDateTime(s string) *gcal.EventDateTime {
	t, err := timeutil.Normalize(s)
	if err != nil {
		return &gcal.EventDateTime{DateTime: s, TimeZone: "UTC"}
	}
	return &gcal.EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: "UTC",
	}
}
