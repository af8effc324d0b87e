// Package event validates flat tool-call parameters for calendar events and
// transforms them into the nested Google Calendar resource shape.
package event
