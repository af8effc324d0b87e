package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gcal "google.golang.org/api/calendar/v3"
)

func TestToEventSummary(t *testing.T) {
	tests := []struct {
		name     string
		input    *gcal.Event
		expected EventSummary
	}{
		{
			name: "timed event with attendees",
			input: &gcal.Event{
				Id:          "evt123",
				Summary:     "Standup",
				Description: "Daily sync",
				Location:    "Room 4",
				Status:      "confirmed",
				Start:       &gcal.EventDateTime{DateTime: "2025-07-11T10:00:00Z", TimeZone: "UTC"},
				End:         &gcal.EventDateTime{DateTime: "2025-07-11T10:30:00Z", TimeZone: "UTC"},
				Attendees: []*gcal.EventAttendee{
					{Email: "a@b.com", ResponseStatus: "accepted"},
					{Email: "c@d.com"},
				},
			},
			expected: EventSummary{
				ID:          "evt123",
				Summary:     "Standup",
				Description: "Daily sync",
				Location:    "Room 4",
				Status:      "confirmed",
				Start:       "2025-07-11T10:00:00Z",
				End:         "2025-07-11T10:30:00Z",
				Attendees:   []string{"a@b.com", "c@d.com"},
			},
		},
		{
			name: "all-day event uses the date",
			input: &gcal.Event{
				Id:      "evt456",
				Summary: "Conference",
				Start:   &gcal.EventDateTime{Date: "2025-07-11"},
				End:     &gcal.EventDateTime{Date: "2025-07-12"},
			},
			expected: EventSummary{
				ID:      "evt456",
				Summary: "Conference",
				Start:   "2025-07-11",
				End:     "2025-07-12",
			},
		},
		{
			name:     "missing times stay empty",
			input:    &gcal.Event{Id: "evt789", Summary: "Broken"},
			expected: EventSummary{ID: "evt789", Summary: "Broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toEventSummary(tt.input))
		})
	}
}

func TestEventPatchEmpty(t *testing.T) {
	assert.True(t, EventPatch{}.Empty())
	assert.False(t, EventPatch{Summary: "New title"}.Empty())
	assert.False(t, EventPatch{Start: "2025-07-11T10:00:00Z"}.Empty())
}

func TestToCalendarInfo(t *testing.T) {
	info := toCalendarInfo(&gcal.CalendarListEntry{
		Id:         "primary",
		Summary:    "Work",
		TimeZone:   "Europe/Berlin",
		Primary:    true,
		AccessRole: "owner",
	})
	assert.Equal(t, CalendarInfo{
		ID:         "primary",
		Summary:    "Work",
		TimeZone:   "Europe/Berlin",
		Primary:    true,
		AccessRole: "owner",
	}, info)
}
