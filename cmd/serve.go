package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/voicekit/calagent/internal/google"
	"github.com/voicekit/calagent/internal/instrumentation"
	"github.com/voicekit/calagent/internal/logging"
	"github.com/voicekit/calagent/internal/server"
	"github.com/voicekit/calagent/internal/tools/calendar_tools"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode  bool
		transport  string
		httpAddr   string
		calendarID string
		tokenFile  string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the calendar tool server",
		Long: `Start the calendar tool server for voice-agent platforms.

Supports two transport types:
  - webhook: HTTP server receiving tool calls as webhooks (default)
  - stdio: Model Context Protocol (MCP) server over standard input/output

Both transports dispatch through the same tool set (create_event,
list_events, manage_event) and share one rolling tool-call history.

Authentication:
  Google OAuth client credentials are read from GOOGLE_CLIENT_ID and
  GOOGLE_CLIENT_SECRET (a .env file in the working directory is loaded
  automatically). Run "calagent auth login" once to store user
  credentials; the server refreshes access tokens on its own afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}
			loadMetricsEnvVars(cmd, &metricsConfig)

			return runServe(transport, debugMode, httpAddr, calendarID, tokenFile, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", "webhook", "Transport type: webhook or stdio")
	cmd.Flags().StringVar(&httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for webhook transport)")
	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "Calendar used when a tool call does not name one (default: primary)")
	cmd.Flags().StringVar(&tokenFile, "token-file", "", "Path to the stored OAuth token (default: user cache directory)")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport string, debugMode bool, httpAddr, calendarID, tokenFile string, metricsConfig MetricsConfig) error {
	// All logging goes to stderr so stdout stays clean for the stdio transport.
	logger := logging.Setup(debugMode)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if transport != "stdio" && metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		logger.Info("metrics server started", "addr", metricsServer.Addr())
	}

	conf, err := google.OAuthConfig()
	if err != nil {
		return err
	}

	store, err := google.NewTokenStore(tokenFile)
	if err != nil {
		return err
	}

	sessionOpts := []google.SessionOption{}
	if provider.Enabled() {
		sessionOpts = append(sessionOpts, google.WithRefreshRecorder(provider.Metrics()))
	}
	session := google.NewSession(conf, store, sessionOpts...)

	if !session.HasCredentials() {
		logger.Warn("no stored credentials; calendar calls will fail until \"calagent auth login\" is run",
			"token_file", store.Path())
	}

	contextConfig := server.Config{
		CalendarID: calendarID,
		Logger:     logger,
	}
	if provider.Enabled() {
		contextConfig.Metrics = provider.Metrics()
	}

	serverContext, err := server.NewServerContext(shutdownCtx, session, contextConfig)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// Start the appropriate server based on transport type
	switch transport {
	case "webhook":
		webhookServer := server.NewWebhookServer(serverContext, httpAddr, contextConfig.Metrics)
		return runWebhookServer(shutdownCtx, webhookServer)
	case "stdio":
		mcpSrv := mcpserver.NewMCPServer("calagent", version,
			mcpserver.WithToolCapabilities(true),
		)
		if err := calendar_tools.RegisterCalendarTools(mcpSrv, serverContext); err != nil {
			return fmt.Errorf("failed to register calendar tools: %w", err)
		}
		return runStdioServer(mcpSrv)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: webhook, stdio)", transport)
	}
}

func runWebhookServer(ctx context.Context, webhookServer *server.WebhookServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := webhookServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := webhookServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down webhook server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("webhook server stopped with error: %w", err)
		}
	}
	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// loadMetricsEnvVars loads metrics server configuration from environment
// variables. Environment variables only override flag values when the flag
// was not explicitly set.
func loadMetricsEnvVars(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if enabled := os.Getenv("METRICS_ENABLED"); enabled != "" {
			if parsed, err := strconv.ParseBool(enabled); err == nil {
				config.Enabled = parsed
			}
		}
	}

	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}
