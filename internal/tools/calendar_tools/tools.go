package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voicekit/calagent/internal/agent"
	"github.com/voicekit/calagent/internal/server"
)

// RegisterCalendarTools registers the calendar agent tools with the MCP server.
// Every tool delegates to the shared dispatcher, so MCP clients see exactly
// the same validation and response envelopes as the webhook transport.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	createEventTool := mcp.NewTool(agent.ToolCreateEvent,
		mcp.WithDescription("Create a new calendar event with optional attendees, description and location"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("start_datetime",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2025-01-15T14:00:00Z')"),
		),
		mcp.WithString("end_datetime",
			mcp.Required(),
			mcp.Description("End time (RFC3339 format, e.g., '2025-01-15T15:00:00Z')"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses; invalid entries are dropped"),
		),
	)

	s.AddTool(createEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return dispatch(ctx, agent.ToolCreateEvent, request, sc)
	})

	listEventsTool := mcp.NewTool(agent.ToolListEvents,
		mcp.WithDescription("List calendar events within a date range, with a spoken-style schedule summary"),
		mcp.WithString("start_date",
			mcp.Description("Range start: 'today', 'tomorrow', 'yesterday' or an ISO date. Defaults to now."),
		),
		mcp.WithString("end_date",
			mcp.Description("Range end, same formats as start_date. Defaults to seven days after the start."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to return"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
	)

	s.AddTool(listEventsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return dispatch(ctx, agent.ToolListEvents, request, sc)
	})

	manageEventTool := mcp.NewTool(agent.ToolManageEvent,
		mcp.WithDescription("Update or delete an existing calendar event"),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update or delete"),
		),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Either 'update' or 'delete'"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("start_datetime",
			mcp.Description("New start time (RFC3339 format)"),
		),
		mcp.WithString("end_datetime",
			mcp.Description("New end time (RFC3339 format)"),
		),
	)

	s.AddTool(manageEventTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return dispatch(ctx, agent.ToolManageEvent, request, sc)
	})

	return nil
}

// dispatch runs one tool call through the shared dispatcher and renders the
// response envelope. Failures become MCP error results carrying the
// dispatcher's message; the transport never sees a Go error for them.
func dispatch(ctx context.Context, name string, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	resp := sc.Dispatcher().Dispatch(ctx, agent.ToolCall{
		Name:       name,
		Parameters: request.GetArguments(),
	})

	if !resp.Success {
		return mcp.NewToolResultError(resp.Message), nil
	}

	payload, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
