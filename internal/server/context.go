package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/voicekit/calagent/internal/agent"
	"github.com/voicekit/calagent/internal/calendar"
	"github.com/voicekit/calagent/internal/google"
	"github.com/voicekit/calagent/internal/instrumentation"
)

// Config carries the optional wiring for a ServerContext.
type Config struct {
	// CalendarID is the calendar used when a tool call does not name one.
	CalendarID string

	// Logger is the structured logger; slog.Default() when nil.
	Logger *slog.Logger

	// Metrics enables tool and API metrics recording when set.
	Metrics *instrumentation.Metrics
}

// ServerContext holds the shared dependencies of a running agent server:
// the OAuth session, the Calendar client built on top of it, and the tool
// dispatcher. Both transports (webhook and stdio) serve from one instance,
// so they share a single rolling history.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	session    *google.Session
	client     *calendar.Client
	dispatcher *agent.Dispatcher
	logger     *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext wires a server context over the given OAuth session.
// Construction succeeds even when the user has not authenticated yet; the
// first Calendar call fails with an auth error instead.
func NewServerContext(ctx context.Context, session *google.Session, cfg Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []calendar.ClientOption{}
	if cfg.Metrics != nil {
		clientOpts = append(clientOpts, calendar.WithRecorder(cfg.Metrics))
	}
	client, err := calendar.NewClient(shutdownCtx, session.TokenSource(shutdownCtx), clientOpts...)
	if err != nil {
		cancel()
		return nil, err
	}

	dispatcherOpts := []agent.Option{agent.WithLogger(logger)}
	if cfg.CalendarID != "" {
		dispatcherOpts = append(dispatcherOpts, agent.WithCalendarID(cfg.CalendarID))
	}
	if cfg.Metrics != nil {
		dispatcherOpts = append(dispatcherOpts, agent.WithMetrics(cfg.Metrics))
	}

	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		session:    session,
		client:     client,
		dispatcher: agent.New(client, dispatcherOpts...),
		logger:     logger,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Dispatcher returns the shared tool dispatcher.
func (sc *ServerContext) Dispatcher() *agent.Dispatcher {
	return sc.dispatcher
}

// CalendarClient returns the shared Calendar client.
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.client
}

// Session returns the OAuth session.
func (sc *ServerContext) Session() *google.Session {
	return sc.session
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
