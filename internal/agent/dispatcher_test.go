package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/voicekit/calagent/internal/calendar"
)

// fakeAPI records calls and returns canned results.
type fakeAPI struct {
	calls []string

	createResult *calendar.EventSummary
	createErr    error
	createInput  *gcal.Event

	getResult *calendar.EventSummary
	getErr    error

	updateResult *calendar.EventSummary
	updateErr    error
	updatePatch  calendar.EventPatch

	deleteErr error

	listResult  []calendar.EventSummary
	listErr     error
	listTimeMin time.Time
	listTimeMax time.Time
	listMax     int64
}

func (f *fakeAPI) CreateEvent(_ context.Context, _ string, ev *gcal.Event) (*calendar.EventSummary, error) {
	f.calls = append(f.calls, "create")
	f.createInput = ev
	return f.createResult, f.createErr
}

func (f *fakeAPI) GetEvent(_ context.Context, _, _ string) (*calendar.EventSummary, error) {
	f.calls = append(f.calls, "get")
	return f.getResult, f.getErr
}

func (f *fakeAPI) UpdateEvent(_ context.Context, _, _ string, patch calendar.EventPatch) (*calendar.EventSummary, error) {
	f.calls = append(f.calls, "update")
	f.updatePatch = patch
	return f.updateResult, f.updateErr
}

func (f *fakeAPI) DeleteEvent(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

func (f *fakeAPI) ListEvents(_ context.Context, _ string, timeMin, timeMax time.Time, maxResults int64) ([]calendar.EventSummary, error) {
	f.calls = append(f.calls, "list")
	f.listTimeMin = timeMin
	f.listTimeMax = timeMax
	f.listMax = maxResults
	return f.listResult, f.listErr
}

var testNow = time.Date(2025, 7, 11, 9, 0, 0, 0, time.UTC)

func newTestDispatcher(api *fakeAPI, opts ...Option) *Dispatcher {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return New(api, opts...)
}

func TestDispatchUnknownTool(t *testing.T) {
	api := &fakeAPI{}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{Name: "explode_calendar"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "explode_calendar")
	assert.Empty(t, api.calls, "unknown tool must never reach the calendar client")
	assert.False(t, resp.Timestamp.IsZero())
	assert.NotEmpty(t, resp.RequestID)
}

func TestDispatchCreateEvent(t *testing.T) {
	api := &fakeAPI{
		createResult: &calendar.EventSummary{
			ID:      "evt1",
			Summary: "Standup",
			Start:   "2025-07-11T10:00:00Z",
			End:     "2025-07-11T10:30:00Z",
		},
	}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name: ToolCreateEvent,
		Parameters: map[string]any{
			"summary":        "Standup",
			"start_datetime": "2025-07-11T10:00:00Z",
			"end_datetime":   "2025-07-11T10:30:00Z",
		},
	})

	require.True(t, resp.Success, "message: %s", resp.Message)
	assert.Contains(t, resp.Message, "Event created successfully!")
	assert.Contains(t, resp.Message, "Standup")
	assert.Equal(t, api.createResult, resp.Data)

	// The transformer output reached the API intact.
	require.NotNil(t, api.createInput)
	assert.Equal(t, "confirmed", api.createInput.Status)
	assert.False(t, api.createInput.Reminders.UseDefault)
	assert.Len(t, api.createInput.Reminders.Overrides, 2)
}

func TestDispatchCreateEventValidationFailure(t *testing.T) {
	api := &fakeAPI{}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name:       ToolCreateEvent,
		Parameters: map[string]any{"summary": "Standup"},
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "start_datetime is required")
	assert.Contains(t, resp.Message, "end_datetime is required")
	assert.Empty(t, api.calls, "validation failure must not reach the calendar client")
}

func TestDispatchCreateEventHandlerFailure(t *testing.T) {
	api := &fakeAPI{createErr: fmt.Errorf("create event: %w", calendar.ErrAuthRequired)}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name: ToolCreateEvent,
		Parameters: map[string]any{
			"summary":        "Standup",
			"start_datetime": "2025-07-11T10:00:00Z",
			"end_datetime":   "2025-07-11T10:30:00Z",
		},
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Failed to create event")
	assert.Contains(t, resp.Message, "authentication required")
}

func TestDispatchListEventsDefaults(t *testing.T) {
	api := &fakeAPI{}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{Name: ToolListEvents})

	require.True(t, resp.Success)
	assert.True(t, api.listTimeMin.Equal(testNow))
	assert.True(t, api.listTimeMax.Equal(testNow.AddDate(0, 0, 7)))
	assert.Zero(t, api.listMax)
	assert.Equal(t, "No events found.", resp.Message)
}

func TestDispatchListEventsParameters(t *testing.T) {
	api := &fakeAPI{
		listResult: []calendar.EventSummary{
			{ID: "e1", Summary: "Standup", Start: "2025-07-11T08:30:00Z", End: "2025-07-11T09:30:00Z"},
			{ID: "e2", Summary: "Retro", Start: "2025-07-11T15:00:00Z", End: "2025-07-11T16:00:00Z"},
		},
	}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name: ToolListEvents,
		Parameters: map[string]any{
			"start_date":  "today",
			"end_date":    "tomorrow",
			"max_results": float64(25), // JSON numbers arrive as float64
		},
	})

	require.True(t, resp.Success, "message: %s", resp.Message)
	assert.True(t, api.listTimeMin.Equal(time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, api.listTimeMax.Equal(time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(25), api.listMax)

	result, ok := resp.Data.(ListResult)
	require.True(t, ok)
	assert.Equal(t, 2, result.Count)
	assert.Contains(t, result.Summary, "1 happening now")
	assert.Contains(t, result.Summary, "Next up: Retro.")
}

func TestDispatchListEventsValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantMsg string
	}{
		{
			name:    "bad start_date",
			params:  map[string]any{"start_date": "not-a-date"},
			wantMsg: "start_date is not a valid date",
		},
		{
			name:    "zero max_results",
			params:  map[string]any{"max_results": float64(0)},
			wantMsg: "max_results must be a positive integer",
		},
		{
			name:    "fractional max_results",
			params:  map[string]any{"max_results": 2.5},
			wantMsg: "max_results must be a positive integer",
		},
		{
			name:    "string max_results",
			params:  map[string]any{"max_results": "10"},
			wantMsg: "max_results must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			d := newTestDispatcher(api)

			resp := d.Dispatch(context.Background(), ToolCall{Name: ToolListEvents, Parameters: tt.params})

			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMsg)
			assert.Empty(t, api.calls)
		})
	}
}

func TestDispatchManageEventValidation(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantMsg string
	}{
		{
			name:    "missing everything",
			params:  map[string]any{},
			wantMsg: "event_id is required",
		},
		{
			name:    "bad action",
			params:  map[string]any{"event_id": "evt1", "action": "archive"},
			wantMsg: "action must be either update or delete",
		},
		{
			name:    "update with no mutable fields",
			params:  map[string]any{"event_id": "evt1", "action": "update"},
			wantMsg: "at least one field to update is required",
		},
		{
			name: "update with bad date",
			params: map[string]any{
				"event_id":       "evt1",
				"action":         "update",
				"start_datetime": "someday",
			},
			wantMsg: "start_datetime is not a valid date",
		},
		{
			name: "update with inverted range",
			params: map[string]any{
				"event_id":       "evt1",
				"action":         "update",
				"start_datetime": "2025-07-11T11:00:00Z",
				"end_datetime":   "2025-07-11T10:00:00Z",
			},
			wantMsg: "end_datetime must be after start_datetime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			d := newTestDispatcher(api)

			resp := d.Dispatch(context.Background(), ToolCall{Name: ToolManageEvent, Parameters: tt.params})

			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.wantMsg)
			assert.Empty(t, api.calls)
		})
	}
}

func TestDispatchManageEventUpdate(t *testing.T) {
	api := &fakeAPI{
		updateResult: &calendar.EventSummary{
			ID:      "evt1",
			Summary: "Standup (moved)",
			Start:   "2025-07-11T11:00:00Z",
			End:     "2025-07-11T11:30:00Z",
		},
	}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name: ToolManageEvent,
		Parameters: map[string]any{
			"event_id": "evt1",
			"action":   "update",
			"summary":  "Standup (moved)",
		},
	})

	require.True(t, resp.Success, "message: %s", resp.Message)
	assert.Equal(t, []string{"update"}, api.calls)
	assert.Equal(t, "Standup (moved)", api.updatePatch.Summary)
	assert.Contains(t, resp.Message, "Event updated successfully!")
}

func TestDispatchManageEventDelete(t *testing.T) {
	removed := &calendar.EventSummary{ID: "evt1", Summary: "Standup"}
	api := &fakeAPI{getResult: removed}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name: ToolManageEvent,
		Parameters: map[string]any{
			"event_id": "evt1",
			"action":   "delete",
		},
	})

	require.True(t, resp.Success, "message: %s", resp.Message)
	assert.Equal(t, []string{"get", "delete"}, api.calls, "event is fetched before deletion so it can be echoed back")
	assert.Equal(t, removed, resp.Data)
	assert.Contains(t, resp.Message, `"Standup" deleted successfully`)
}

func TestDispatchManageEventDeleteFetchFails(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("get event: not found")}
	d := newTestDispatcher(api)

	resp := d.Dispatch(context.Background(), ToolCall{
		Name: ToolManageEvent,
		Parameters: map[string]any{
			"event_id": "missing",
			"action":   "delete",
		},
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "Failed to delete event")
	assert.Equal(t, []string{"get"}, api.calls, "delete is skipped when the fetch fails")
}

func TestHistoryBounded(t *testing.T) {
	api := &fakeAPI{}
	d := newTestDispatcher(api, WithHistorySize(3))

	for i := 0; i < 5; i++ {
		d.Dispatch(context.Background(), ToolCall{Name: fmt.Sprintf("tool-%d", i)})
	}

	entries := d.History()
	require.Len(t, entries, 3)
	assert.Contains(t, entries[0].Message, "tool-2", "oldest entries are evicted first")
	assert.Contains(t, entries[2].Message, "tool-4")
}
