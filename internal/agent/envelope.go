package agent

import (
	"time"
)

// Tool names the voice agent may invoke. Anything else is a validation
// failure, not a crash.
const (
	ToolCreateEvent = "create_event"
	ToolListEvents  = "list_events"
	ToolManageEvent = "manage_event"
)

// ToolCall is a structured invocation from the voice agent: an operation
// name plus a flat mapping of parameter names to primitive values. Immutable
// once received and never persisted.
type ToolCall struct {
	Name       string         `json:"tool_name"`
	Parameters map[string]any `json:"parameters"`
}

// ToolResponse is the uniform envelope returned for every tool call,
// whatever happened inside.
type ToolResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
