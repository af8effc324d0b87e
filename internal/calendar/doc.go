// Package calendar provides a thin client for the Google Calendar API.
//
// The client covers the operations the voice-agent tools need: create, get,
// update, delete and list on events, listing calendars, and free/busy
// queries. HTTP failures are translated into a small error taxonomy
// (ErrAuthRequired, ErrPermissionDenied, ErrNotFound, ErrNetwork, APIError)
// so that tool handlers can render them without inspecting status codes.
// The mapping is purely cosmetic: there is no retry and no backoff.
package calendar
