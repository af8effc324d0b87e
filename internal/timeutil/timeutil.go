package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DefaultEventMinutes is the event length assumed when a caller supplies a
// start time without an explicit duration.
const DefaultEventMinutes = 60

// ErrInvalidDateFormat is returned when a date string cannot be parsed.
// Callers can test for it with errors.Is.
var ErrInvalidDateFormat = errors.New("invalid date format")

// layouts accepted by Normalize, tried in order. Timestamps without a zone
// offset are interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize parses a date string and returns the canonical instant: UTC,
// truncated to millisecond precision.
func Normalize(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidDateFormat)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
}

// DurationMinutes returns the whole-minute duration between two date strings,
// rounded to the nearest minute. Unparseable input yields 0 rather than an
// error so display code never has to handle a failure here.
func DurationMinutes(start, end string) int {
	s, err := Normalize(start)
	if err != nil {
		return 0
	}
	e, err := Normalize(end)
	if err != nil {
		return 0
	}
	return int(math.Round(e.Sub(s).Minutes()))
}

// AddMinutes computes the end instant for an event starting at the given
// instant. A non-positive duration falls back to DefaultEventMinutes.
func AddMinutes(start string, minutes int) (time.Time, error) {
	s, err := Normalize(start)
	if err != nil {
		return time.Time{}, err
	}
	if minutes <= 0 {
		minutes = DefaultEventMinutes
	}
	return s.Add(time.Duration(minutes) * time.Minute), nil
}

// IsPast reports whether the event ending at the given instant is already
// over, i.e. its end is strictly before now. Unparseable input is never
// considered past.
func IsPast(end string, now time.Time) bool {
	e, err := Normalize(end)
	if err != nil {
		return false
	}
	return e.Before(now)
}

// IsOngoing reports whether now falls strictly between start and end.
// Unparseable input is never considered ongoing.
func IsOngoing(start, end string, now time.Time) bool {
	s, err := Normalize(start)
	if err != nil {
		return false
	}
	e, err := Normalize(end)
	if err != nil {
		return false
	}
	return now.After(s) && now.Before(e)
}

// ResolveDate resolves a small set of natural-language literals ("today",
// "tomorrow", "yesterday", matched case-insensitively as substrings) or an
// already-valid date string to an instant. The boolean result is false when
// the input is neither; that is not an error, only a missing convenience.
func ResolveDate(s string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(s)
	day := now.UTC().Truncate(24 * time.Hour)
	switch {
	case strings.Contains(lower, "today"):
		return day, true
	case strings.Contains(lower, "tomorrow"):
		return day.AddDate(0, 0, 1), true
	case strings.Contains(lower, "yesterday"):
		return day.AddDate(0, 0, -1), true
	}
	if t, err := Normalize(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
