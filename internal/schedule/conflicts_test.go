package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicekit/calagent/internal/calendar"
)

func existing(id, start, end string) calendar.EventSummary {
	return calendar.EventSummary{ID: id, Summary: id, Start: start, End: end}
}

func TestConflicts(t *testing.T) {
	events := []calendar.EventSummary{
		existing("meeting", "2025-07-11T10:00:00Z", "2025-07-11T11:00:00Z"),
	}

	tests := []struct {
		name     string
		start    string
		end      string
		wantIDs  []string
	}{
		{
			name:    "overlapping candidate conflicts",
			start:   "2025-07-11T10:30:00Z",
			end:     "2025-07-11T11:30:00Z",
			wantIDs: []string{"meeting"},
		},
		{
			name:    "disjoint candidate does not conflict",
			start:   "2025-07-11T12:00:00Z",
			end:     "2025-07-11T13:00:00Z",
			wantIDs: nil,
		},
		{
			name:    "back to back is not a conflict",
			start:   "2025-07-11T11:00:00Z",
			end:     "2025-07-11T12:00:00Z",
			wantIDs: nil,
		},
		{
			name:    "candidate containing the event conflicts",
			start:   "2025-07-11T09:00:00Z",
			end:     "2025-07-11T12:00:00Z",
			wantIDs: []string{"meeting"},
		},
		{
			name:    "candidate inside the event conflicts",
			start:   "2025-07-11T10:15:00Z",
			end:     "2025-07-11T10:45:00Z",
			wantIDs: []string{"meeting"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := time.Parse(time.RFC3339, tt.start)
			require.NoError(t, err)
			end, err := time.Parse(time.RFC3339, tt.end)
			require.NoError(t, err)

			got := Conflicts(start, end, events)
			var ids []string
			for _, ev := range got {
				ids = append(ids, ev.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

// Overlap must not depend on which interval plays the candidate role.
func TestConflictsSymmetric(t *testing.T) {
	pairs := []struct {
		aStart, aEnd string
		bStart, bEnd string
	}{
		{"2025-07-11T10:00:00Z", "2025-07-11T11:00:00Z", "2025-07-11T10:30:00Z", "2025-07-11T11:30:00Z"},
		{"2025-07-11T10:00:00Z", "2025-07-11T11:00:00Z", "2025-07-11T11:00:00Z", "2025-07-11T12:00:00Z"},
		{"2025-07-11T10:00:00Z", "2025-07-11T11:00:00Z", "2025-07-11T12:00:00Z", "2025-07-11T13:00:00Z"},
		{"2025-07-11T09:00:00Z", "2025-07-11T13:00:00Z", "2025-07-11T10:00:00Z", "2025-07-11T11:00:00Z"},
	}

	for _, p := range pairs {
		aStart, _ := time.Parse(time.RFC3339, p.aStart)
		aEnd, _ := time.Parse(time.RFC3339, p.aEnd)
		bStart, _ := time.Parse(time.RFC3339, p.bStart)
		bEnd, _ := time.Parse(time.RFC3339, p.bEnd)

		forward := len(Conflicts(aStart, aEnd, []calendar.EventSummary{existing("b", p.bStart, p.bEnd)}))
		reverse := len(Conflicts(bStart, bEnd, []calendar.EventSummary{existing("a", p.aStart, p.aEnd)}))
		assert.Equal(t, forward, reverse, "asymmetric overlap for %+v", p)
	}
}

func TestConflictsSkipsUnparseableEvents(t *testing.T) {
	events := []calendar.EventSummary{
		existing("broken", "not a time", "2025-07-11T11:00:00Z"),
		existing("ok", "2025-07-11T10:00:00Z", "2025-07-11T11:00:00Z"),
	}

	start, _ := time.Parse(time.RFC3339, "2025-07-11T10:30:00Z")
	end, _ := time.Parse(time.RFC3339, "2025-07-11T11:30:00Z")

	got := Conflicts(start, end, events)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].ID)
}
