// Package cmd implements the command-line interface for calagent.
//
// This package provides the following commands:
//   - serve: Start the calendar tool server (webhook HTTP or MCP stdio)
//   - auth: Manage Google Calendar authorization (login, status, logout)
//   - call: Dispatch a single tool call and print the response envelope
//   - generate-docs: Generate markdown documentation for the agent tools
//   - version: Display version information
package cmd
