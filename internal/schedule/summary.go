package schedule

import (
	"fmt"
	"time"

	"github.com/voicekit/calagent/internal/calendar"
	"github.com/voicekit/calagent/internal/timeutil"
)

// Summarize produces a short natural-language description of an event set
// for the voice agent to read back: counts of ongoing, upcoming and past
// events relative to now, and the soonest upcoming event by name if one
// exists. Events with unparseable times still count toward the total but are
// placed in no bucket.
func Summarize(events []calendar.EventSummary, now time.Time) string {
	if len(events) == 0 {
		return "No events found."
	}

	var ongoing, upcoming, past int
	var next *calendar.EventSummary
	var nextStart time.Time

	for i, ev := range events {
		switch {
		case timeutil.IsOngoing(ev.Start, ev.End, now):
			ongoing++
		case timeutil.IsPast(ev.End, now):
			past++
		default:
			start, err := timeutil.Normalize(ev.Start)
			if err != nil || !start.After(now) {
				continue
			}
			upcoming++
			if next == nil || start.Before(nextStart) {
				next = &events[i]
				nextStart = start
			}
		}
	}

	msg := fmt.Sprintf("Found %d event(s): %d happening now, %d upcoming, %d past.",
		len(events), ongoing, upcoming, past)
	if next != nil {
		msg += fmt.Sprintf(" Next up: %s.", next.Summary)
	}
	return msg
}
