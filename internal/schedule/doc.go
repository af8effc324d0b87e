// Package schedule implements interval reasoning over calendar events:
// conflict detection for a candidate time slot and natural-language
// summaries of listed event sets.
package schedule
