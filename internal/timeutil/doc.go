// Package timeutil normalizes the date strings that arrive in voice-agent
// tool calls into canonical UTC instants.
//
// Tool parameters are free-form strings produced by a language model, so
// every function here has a deliberate failure posture: Normalize returns
// ErrInvalidDateFormat, while the derived helpers (DurationMinutes, IsPast,
// IsOngoing) fail soft with a zero or false result. Display code built on
// those helpers must never crash on malformed data.
package timeutil
