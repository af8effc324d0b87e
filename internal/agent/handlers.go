package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/voicekit/calagent/internal/calendar"
	"github.com/voicekit/calagent/internal/event"
	"github.com/voicekit/calagent/internal/schedule"
	"github.com/voicekit/calagent/internal/timeutil"
)

// defaultListWindowDays is the look-ahead used when list_events is called
// without a date range.
const defaultListWindowDays = 7

// ListResult is the payload for a successful list_events call.
type ListResult struct {
	Count   int                     `json:"count"`
	Events  []calendar.EventSummary `json:"events"`
	Summary string                  `json:"summary"`
}

func (d *Dispatcher) handleCreateEvent(ctx context.Context, params map[string]any) ToolResponse {
	result := event.Validate(params)
	if !result.Valid {
		return failure(strings.Join(result.Errors, "; "))
	}

	created, err := d.api.CreateEvent(ctx, d.calendarID, event.BuildEvent(params))
	if err != nil {
		return failure(fmt.Sprintf("Failed to create event: %v", err))
	}

	msg := fmt.Sprintf("Event created successfully! %q is scheduled for %s.",
		created.Summary, displayTime(created.Start))
	return success(created, msg)
}

func (d *Dispatcher) handleListEvents(ctx context.Context, params map[string]any) ToolResponse {
	now := d.now().UTC()
	var errs []string

	timeMin := now
	if t, ok := optionalDate(params, "start_date", now, &errs); ok {
		timeMin = t
	}

	var timeMax time.Time
	if t, ok := optionalDate(params, "end_date", now, &errs); ok {
		timeMax = t
	} else {
		timeMax = timeMin.AddDate(0, 0, defaultListWindowDays)
	}

	var maxResults int64
	if raw, present := params["max_results"]; present {
		n, ok := positiveInt(raw)
		if !ok {
			errs = append(errs, "max_results must be a positive integer")
		}
		maxResults = n
	}

	calendarID := d.calendarID
	if cid, ok := params["calendar_id"].(string); ok && cid != "" {
		calendarID = cid
	}

	if len(errs) > 0 {
		return failure(strings.Join(errs, "; "))
	}

	events, err := d.api.ListEvents(ctx, calendarID, timeMin, timeMax, maxResults)
	if err != nil {
		return failure(fmt.Sprintf("Failed to list events: %v", err))
	}

	summary := schedule.Summarize(events, now)
	return success(ListResult{Count: len(events), Events: events, Summary: summary}, summary)
}

func (d *Dispatcher) handleManageEvent(ctx context.Context, params map[string]any) ToolResponse {
	var errs []string

	eventID, _ := params["event_id"].(string)
	if strings.TrimSpace(eventID) == "" {
		errs = append(errs, "event_id is required")
	}

	action, _ := params["action"].(string)
	if action != "update" && action != "delete" {
		errs = append(errs, "action must be either update or delete")
	}

	var patch calendar.EventPatch
	if action == "update" {
		patch = buildPatch(params, &errs)
		if len(errs) == 0 && patch.Empty() {
			errs = append(errs, "at least one field to update is required")
		}
	}

	if len(errs) > 0 {
		return failure(strings.Join(errs, "; "))
	}

	switch action {
	case "delete":
		// The delete call returns no body, so fetch first to echo back what
		// was removed.
		removed, err := d.api.GetEvent(ctx, d.calendarID, eventID)
		if err != nil {
			return failure(fmt.Sprintf("Failed to delete event: %v", err))
		}
		if err := d.api.DeleteEvent(ctx, d.calendarID, eventID); err != nil {
			return failure(fmt.Sprintf("Failed to delete event: %v", err))
		}
		return success(removed, fmt.Sprintf("Event %q deleted successfully.", removed.Summary))

	default:
		updated, err := d.api.UpdateEvent(ctx, d.calendarID, eventID, patch)
		if err != nil {
			return failure(fmt.Sprintf("Failed to update event: %v", err))
		}
		msg := fmt.Sprintf("Event updated successfully! %q is scheduled for %s.",
			updated.Summary, displayTime(updated.Start))
		return success(updated, msg)
	}
}

// buildPatch collects the mutable fields of a manage_event update, appending
// validation errors for malformed dates.
func buildPatch(params map[string]any, errs *[]string) calendar.EventPatch {
	patch := calendar.EventPatch{}
	if s, ok := params["summary"].(string); ok && s != "" {
		patch.Summary = s
	}
	if s, ok := params["description"].(string); ok && s != "" {
		patch.Description = s
	}
	if s, ok := params["location"].(string); ok && s != "" {
		patch.Location = s
	}

	var start, end time.Time
	var haveStart, haveEnd bool
	if s, ok := params["start_datetime"].(string); ok && s != "" {
		t, err := timeutil.Normalize(s)
		if err != nil {
			*errs = append(*errs, "start_datetime is not a valid date: "+s)
		} else {
			patch.Start = s
			start, haveStart = t, true
		}
	}
	if s, ok := params["end_datetime"].(string); ok && s != "" {
		t, err := timeutil.Normalize(s)
		if err != nil {
			*errs = append(*errs, "end_datetime is not a valid date: "+s)
		} else {
			patch.End = s
			end, haveEnd = t, true
		}
	}
	if haveStart && haveEnd && !end.After(start) {
		*errs = append(*errs, "end_datetime must be after start_datetime")
	}

	return patch
}

// optionalDate resolves an optional date parameter, which may be a natural
// literal ("today") or an ISO string. Returns ok=false when absent or
// invalid; invalid values also append a validation error.
func optionalDate(params map[string]any, key string, now time.Time, errs *[]string) (time.Time, bool) {
	raw, present := params[key]
	if !present {
		return time.Time{}, false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		*errs = append(*errs, key+" must be a date string")
		return time.Time{}, false
	}
	t, ok := timeutil.ResolveDate(s, now)
	if !ok {
		*errs = append(*errs, key+" is not a valid date: "+s)
		return time.Time{}, false
	}
	return t, true
}

// positiveInt accepts the integer encodings a JSON tool call can carry.
func positiveInt(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), v > 0
	case int64:
		return v, v > 0
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), v > 0
	default:
		return 0, false
	}
}

// displayTime renders a stored event time for a human-readable message,
// falling back to the raw string when it cannot be parsed.
func displayTime(s string) string {
	t, err := timeutil.Normalize(s)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006 at 15:04 UTC")
}
