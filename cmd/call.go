package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voicekit/calagent/internal/agent"
	"github.com/voicekit/calagent/internal/logging"
	"github.com/voicekit/calagent/internal/server"
)

func newCallCmd() *cobra.Command {
	var (
		debugMode  bool
		params     string
		calendarID string
		tokenFile  string
	)

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Dispatch a single tool call",
		Long: `Dispatch one tool call and print the response envelope.

Useful for trying out tool calls without a running server:

  calagent call list_events --params '{"start_date":"today"}'
  calagent call create_event --params '{"summary":"Standup","start_datetime":"2025-01-15T14:00:00Z","end_datetime":"2025-01-15T14:30:00Z"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(debugMode)

			parameters := map[string]interface{}{}
			if params != "" {
				if err := json.Unmarshal([]byte(params), &parameters); err != nil {
					return fmt.Errorf("invalid --params JSON: %w", err)
				}
			}

			session, err := newSession(tokenFile)
			if err != nil {
				return err
			}

			serverContext, err := server.NewServerContext(cmd.Context(), session, server.Config{
				CalendarID: calendarID,
				Logger:     logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server context: %w", err)
			}
			defer func() {
				_ = serverContext.Shutdown()
			}()

			resp := serverContext.Dispatcher().Dispatch(cmd.Context(), agent.ToolCall{
				Name:       args[0],
				Parameters: parameters,
			})

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
			cmd.Println(string(out))

			if !resp.Success {
				return fmt.Errorf("tool call failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&params, "params", "{}", "Tool parameters as a JSON object")
	cmd.Flags().StringVar(&calendarID, "calendar-id", "", "Calendar used when the call does not name one (default: primary)")
	cmd.Flags().StringVar(&tokenFile, "token-file", "", "Path to the stored OAuth token (default: user cache directory)")

	return cmd
}
