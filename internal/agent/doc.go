// Package agent implements the tool-call dispatch layer between the voice
// agent and the Google Calendar API.
//
// A ToolCall names one of three operations (create_event, list_events,
// manage_event) with a flat parameter map. The Dispatcher validates the
// parameters against rules specific to the named tool, runs the matching
// handler, and packages the outcome into a uniform ToolResponse envelope.
// Nothing escapes this layer as an error: unknown tools, invalid parameters
// and calendar failures all terminate in a response value the caller can
// render or speak.
package agent
