// Package server provides the shared server context and the webhook HTTP
// transport for the calagent application.
//
// # Key Components
//
// ServerContext wires the OAuth session, the Calendar client, and the tool
// dispatcher into one unit shared by every transport. Webhook and MCP stdio
// serving both draw from the same dispatcher, so the rolling tool-call
// history is transport-independent.
//
// WebhookServer exposes the dispatcher over plain HTTP for voice-agent
// platforms that deliver tool calls as webhooks:
//   - POST /v1/tool-calls: dispatch one tool call, response envelope in the body
//   - GET  /v1/history: recent tool responses, oldest first
//   - GET  /v1/calendars: calendars visible to the authenticated user
//   - POST /v1/free-busy: availability query across calendars
//   - /healthz, /readyz: liveness and readiness probes
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from application traffic.
package server
