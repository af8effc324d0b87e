package schedule

import (
	"time"

	"github.com/voicekit/calagent/internal/calendar"
	"github.com/voicekit/calagent/internal/timeutil"
)

// Conflicts returns the events whose interval overlaps the candidate
// interval, using strict half-open overlap: candidateStart < existingEnd &&
// candidateEnd > existingStart. Back-to-back events do not conflict. Events
// whose stored times cannot be parsed are excluded from consideration rather
// than raising an error.
func Conflicts(candidateStart, candidateEnd time.Time, events []calendar.EventSummary) []calendar.EventSummary {
	var conflicts []calendar.EventSummary
	for _, ev := range events {
		start, err := timeutil.Normalize(ev.Start)
		if err != nil {
			continue
		}
		end, err := timeutil.Normalize(ev.End)
		if err != nil {
			continue
		}
		if candidateStart.Before(end) && candidateEnd.After(start) {
			conflicts = append(conflicts, ev)
		}
	}
	return conflicts
}
