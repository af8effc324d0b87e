// Package calendar_tools registers the calendar agent tools (create_event,
// list_events, manage_event) with an MCP server, delegating every call to the
// shared tool dispatcher.
package calendar_tools
