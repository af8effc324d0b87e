package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/voicekit/calagent/internal/timeutil"
)

// DefaultCalendarID is the calendar used when a tool call does not name one.
const DefaultCalendarID = "primary"

// OperationRecorder observes API operations for metrics. The instrumentation
// package's Metrics satisfies it; keeping an interface here avoids pulling
// OpenTelemetry into this package.
type OperationRecorder interface {
	RecordCalendarOperation(ctx context.Context, operation, status string, duration time.Duration)
}

// Client wraps the Google Calendar service. All failures are translated into
// the error taxonomy in errors.go; the caller decides whether to surface the
// message or retry manually.
type Client struct {
	svc      *gcal.Service
	recorder OperationRecorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRecorder enables per-operation metrics recording.
func WithRecorder(r OperationRecorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// NewClient creates a Calendar client backed by the given token source.
// Tokens are fetched lazily per request, so construction succeeds even before
// the user has authenticated; the first API call will fail with
// ErrAuthRequired instead.
func NewClient(ctx context.Context, ts oauth2.TokenSource, opts ...ClientOption) (*Client, error) {
	if ts == nil {
		return nil, fmt.Errorf("token source cannot be nil")
	}

	httpClient := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := httpClient.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	c := &Client{svc: svc}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// observe records one API operation. Status values mirror the ones the
// instrumentation package uses for tool invocations.
func (c *Client) observe(ctx context.Context, op string, started time.Time, err error) {
	if c.recorder == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	c.recorder.RecordCalendarOperation(ctx, op, status, time.Since(started))
}

// ListEvents lists events in a calendar within a time range, soonest first.
// A maxResults of zero or less leaves the service's default page size.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]EventSummary, error) {
	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	started := time.Now()
	events, err := call.Do()
	c.observe(ctx, "list events", started, err)
	if err != nil {
		return nil, wrapError("list events", err)
	}

	var summaries []EventSummary
	for _, ev := range events.Items {
		summaries = append(summaries, toEventSummary(ev))
	}
	return summaries, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*EventSummary, error) {
	started := time.Now()
	ev, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	c.observe(ctx, "get event", started, err)
	if err != nil {
		return nil, wrapError("get event", err)
	}

	summary := toEventSummary(ev)
	return &summary, nil
}

// CreateEvent inserts an event resource (already in the nested service shape,
// see the event package) into a calendar.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, ev *gcal.Event) (*EventSummary, error) {
	started := time.Now()
	created, err := c.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	c.observe(ctx, "create event", started, err)
	if err != nil {
		return nil, wrapError("create event", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent applies a partial update to an existing event. The event is
// fetched first so unmentioned fields keep their current values.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, patch EventPatch) (*EventSummary, error) {
	started := time.Now()
	existing, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		c.observe(ctx, "update event", started, err)
		return nil, wrapError("get existing event", err)
	}

	if patch.Summary != "" {
		existing.Summary = patch.Summary
	}
	if patch.Description != "" {
		existing.Description = patch.Description
	}
	if patch.Location != "" {
		existing.Location = patch.Location
	}
	if patch.Start != "" {
		existing.Start = patchTime(patch.Start)
	}
	if patch.End != "" {
		existing.End = patchTime(patch.End)
	}

	updated, err := c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
	c.observe(ctx, "update event", started, err)
	if err != nil {
		return nil, wrapError("update event", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent deletes a calendar event. The service returns no body, so
// callers that want to echo the removed event fetch it first.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	started := time.Now()
	err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
	c.observe(ctx, "delete event", started, err)
	if err != nil {
		return wrapError("delete event", err)
	}
	return nil
}

// ListCalendars lists all calendars accessible to the user.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	started := time.Now()
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	c.observe(ctx, "list calendars", started, err)
	if err != nil {
		return nil, wrapError("list calendars", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}
	return calendars, nil
}

// QueryFreeBusy checks availability for the given calendars in a time range.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	items := make([]*gcal.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &gcal.FreeBusyRequestItem{Id: id}
	}

	started := time.Now()
	result, err := c.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}).Context(ctx).Do()
	c.observe(ctx, "query freebusy", started, err)
	if err != nil {
		return nil, wrapError("query freebusy", err)
	}

	var infos []FreeBusyInfo
	for calID, cal := range result.Calendars {
		info := FreeBusyInfo{Calendar: calID}
		for _, busy := range cal.Busy {
			info.Busy = append(info.Busy, BusyRange{Start: busy.Start, End: busy.End})
		}
		for _, calErr := range cal.Errors {
			info.Errors = append(info.Errors, calErr.Reason)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// patchTime converts a date string into the service's {dateTime, timeZone}
// pair, normalizing offsets to UTC.
func patchTime(s string) *gcal.EventDateTime {
	if t, err := timeutil.Normalize(s); err == nil {
		return &gcal.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: "UTC"}
	}
	return &gcal.EventDateTime{DateTime: s, TimeZone: "UTC"}
}
