package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gcal "google.golang.org/api/calendar/v3"

	"github.com/voicekit/calagent/internal/calendar"
	"github.com/voicekit/calagent/internal/instrumentation"
	"github.com/voicekit/calagent/internal/logging"
)

// CalendarAPI is the slice of the calendar client the dispatcher needs.
// *calendar.Client satisfies it; tests substitute a fake.
type CalendarAPI interface {
	CreateEvent(ctx context.Context, calendarID string, ev *gcal.Event) (*calendar.EventSummary, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.EventSummary, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, patch calendar.EventPatch) (*calendar.EventSummary, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]calendar.EventSummary, error)
}

// Dispatcher routes named tool invocations to their handlers. Every call
// terminates in a ToolResponse: validation failures, handler failures and
// unknown tools all become response values, never escaped errors.
type Dispatcher struct {
	api        CalendarAPI
	calendarID string
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	history    *history
	now        func() time.Time
	newID      func() string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithMetrics enables tool-invocation metrics recording.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithCalendarID sets the calendar used when a call does not name one.
func WithCalendarID(id string) Option {
	return func(d *Dispatcher) { d.calendarID = id }
}

// WithHistorySize bounds the rolling response history.
func WithHistorySize(n int) Option {
	return func(d *Dispatcher) { d.history = newHistory(n) }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// New creates a Dispatcher over the given calendar API. Dependencies are
// passed in explicitly; there are no package-level singletons.
func New(api CalendarAPI, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		api:        api,
		calendarID: calendar.DefaultCalendarID,
		logger:     slog.Default(),
		history:    newHistory(DefaultHistorySize),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs one tool call through validation and its handler and returns
// the response envelope. It never returns an error and never panics on
// malformed input.
func (d *Dispatcher) Dispatch(ctx context.Context, call ToolCall) ToolResponse {
	started := d.now()

	var resp ToolResponse
	switch call.Name {
	case ToolCreateEvent:
		resp = d.handleCreateEvent(ctx, call.Parameters)
	case ToolListEvents:
		resp = d.handleListEvents(ctx, call.Parameters)
	case ToolManageEvent:
		resp = d.handleManageEvent(ctx, call.Parameters)
	default:
		resp = failure("unknown tool: " + call.Name)
	}

	resp.Timestamp = d.now().UTC()
	resp.RequestID = d.newID()

	status := logging.StatusSuccess
	if !resp.Success {
		status = logging.StatusError
	}
	d.logger.Info("tool call dispatched",
		logging.Tool(call.Name),
		logging.Status(status),
		slog.String(logging.KeyRequestID, resp.RequestID),
		slog.Duration(logging.KeyDuration, d.now().Sub(started)),
	)
	if d.metrics != nil {
		d.metrics.RecordToolInvocation(ctx, call.Name, status, d.now().Sub(started))
	}

	d.history.add(resp)
	return resp
}

// History returns a copy of the rolling response history, newest last.
func (d *Dispatcher) History() []ToolResponse {
	return d.history.snapshot()
}

func failure(msg string) ToolResponse {
	return ToolResponse{Success: false, Message: msg}
}

func success(data any, msg string) ToolResponse {
	return ToolResponse{Success: true, Data: data, Message: msg}
}
