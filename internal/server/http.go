package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/voicekit/calagent/internal/agent"
	"github.com/voicekit/calagent/internal/calendar"
	"github.com/voicekit/calagent/internal/instrumentation"
	"github.com/voicekit/calagent/internal/logging"
	"github.com/voicekit/calagent/internal/timeutil"
)

const (
	// DefaultHTTPAddr is the default bind address for the webhook server.
	DefaultHTTPAddr = ":8080"

	// DefaultHTTPReadTimeout bounds how long reading a request header may take.
	DefaultHTTPReadTimeout = 10 * time.Second

	// DefaultHTTPWriteTimeout bounds how long writing a response may take.
	DefaultHTTPWriteTimeout = 30 * time.Second

	// DefaultHTTPIdleTimeout bounds how long idle keep-alive connections live.
	DefaultHTTPIdleTimeout = 60 * time.Second
)

// ToolDispatcher is the slice of the agent dispatcher the webhook transport
// needs. Tests substitute a fake.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, call agent.ToolCall) agent.ToolResponse
	History() []agent.ToolResponse
}

// CalendarDirectory serves the read-only calendar endpoints.
type CalendarDirectory interface {
	ListCalendars(ctx context.Context) ([]calendar.CalendarInfo, error)
	QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]calendar.FreeBusyInfo, error)
}

// WebhookServer exposes the tool dispatcher over HTTP for voice-agent
// platforms that deliver tool calls as webhooks.
type WebhookServer struct {
	dispatcher ToolDispatcher
	directory  CalendarDirectory
	health     *HealthChecker
	logger     *slog.Logger
	metrics    *instrumentation.Metrics

	httpServer *http.Server
	addr       string
}

// NewWebhookServer creates a webhook server over the shared server context.
func NewWebhookServer(sc *ServerContext, addr string, metrics *instrumentation.Metrics) *WebhookServer {
	if addr == "" {
		addr = DefaultHTTPAddr
	}
	return &WebhookServer{
		dispatcher: sc.Dispatcher(),
		directory:  sc.CalendarClient(),
		health:     NewHealthChecker(sc),
		logger:     sc.Logger(),
		metrics:    metrics,
		addr:       addr,
	}
}

// Handler builds the full route table. Exposed for tests.
func (s *WebhookServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tool-calls", s.handleToolCall)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("GET /v1/calendars", s.handleCalendars)
	mux.HandleFunc("POST /v1/free-busy", s.handleFreeBusy)
	s.health.RegisterHealthEndpoints(mux)
	return s.instrument(mux)
}

// Start runs the webhook server until Shutdown or listener failure.
func (s *WebhookServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultHTTPReadTimeout,
		WriteTimeout:      DefaultHTTPWriteTimeout,
		IdleTimeout:       DefaultHTTPIdleTimeout,
	}

	s.logger.Info("starting webhook server", "addr", s.addr, logging.Transport("webhook"))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the webhook server.
func (s *WebhookServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		s.logger.Info("shutting down webhook server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured bind address.
func (s *WebhookServer) Addr() string {
	return s.addr
}

func (s *WebhookServer) handleToolCall(w http.ResponseWriter, r *http.Request) {
	var call agent.ToolCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeJSON(w, http.StatusBadRequest, agent.ToolResponse{
			Success:   false,
			Message:   "invalid request body: " + err.Error(),
			Timestamp: time.Now().UTC(),
		})
		return
	}

	resp := s.dispatcher.Dispatch(r.Context(), call)

	// The envelope carries success or failure; HTTP stays 200 so the
	// platform relays the message to the caller either way.
	writeJSON(w, http.StatusOK, resp)
}

func (s *WebhookServer) handleHistory(w http.ResponseWriter, _ *http.Request) {
	entries := s.dispatcher.History()
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(entries),
		"responses": entries,
	})
}

func (s *WebhookServer) handleCalendars(w http.ResponseWriter, r *http.Request) {
	calendars, err := s.directory.ListCalendars(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(calendars),
		"calendars": calendars,
	})
}

// freeBusyRequest is the body of POST /v1/free-busy.
type freeBusyRequest struct {
	TimeMin     string   `json:"time_min"`
	TimeMax     string   `json:"time_max"`
	CalendarIDs []string `json:"calendar_ids"`
}

func (s *WebhookServer) handleFreeBusy(w http.ResponseWriter, r *http.Request) {
	var req freeBusyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	timeMin, err := timeutil.Normalize(req.TimeMin)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "time_min is not a valid date: " + req.TimeMin})
		return
	}
	timeMax, err := timeutil.Normalize(req.TimeMax)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "time_max is not a valid date: " + req.TimeMax})
		return
	}
	if !timeMax.After(timeMin) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "time_max must be after time_min"})
		return
	}

	ids := req.CalendarIDs
	if len(ids) == 0 {
		ids = []string{calendar.DefaultCalendarID}
	}

	infos, err := s.directory.QueryFreeBusy(r.Context(), timeMin, timeMax, ids)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"calendars": infos})
}

// instrument wraps the handler with request logging and HTTP metrics.
func (s *WebhookServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(started)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			slog.Duration(logging.KeyDuration, duration),
		)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, duration)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
