package event

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/voicekit/calagent/internal/timeutil"
)

// Result is the outcome of validating flat event parameters. Every failing
// rule contributes its own message; validation never short-circuits.
type Result struct {
	Valid  bool
	Errors []string
}

// Pragmatic email check: non-whitespace-non-@ local part, an @, and a domain
// containing a dot. Deliberately not RFC 5322.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Validate checks flat create-event parameters. It never panics on odd
// parameter types; a wrong type is just another validation error.
func Validate(params map[string]any) Result {
	var errs []string

	summary, _ := params["summary"].(string)
	if strings.TrimSpace(summary) == "" {
		errs = append(errs, "summary is required")
	}

	start, startOK := requireDate(params, "start_datetime", &errs)
	end, endOK := requireDate(params, "end_datetime", &errs)

	if startOK && endOK && !end.After(start) {
		errs = append(errs, "end_datetime must be after start_datetime")
	}

	if raw, present := params["attendees"]; present {
		if _, ok := raw.(string); !ok {
			errs = append(errs, "attendees must be a comma-separated string")
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// requireDate validates that the named parameter is present and parses,
// appending errors as it goes. The parsed instant is returned so the caller
// can run the ordering rule.
func requireDate(params map[string]any, key string, errs *[]string) (time.Time, bool) {
	raw, present := params[key]
	s, isString := raw.(string)
	if !present || !isString || strings.TrimSpace(s) == "" {
		*errs = append(*errs, fmt.Sprintf("%s is required", key))
		return time.Time{}, false
	}
	parsed, err := timeutil.Normalize(s)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s is not a valid date: %s", key, s))
		return time.Time{}, false
	}
	return parsed, true
}

// ParseAttendees splits a comma-separated attendee string, trims whitespace,
// and silently drops entries that fail the email check, preserving the order
// of the survivors. Partial success is intentional: the agent-facing contract
// favors creating the event over rejecting the whole call for one bad email.
func ParseAttendees(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		email := strings.TrimSpace(part)
		if email == "" || !ValidEmail(email) {
			continue
		}
		out = append(out, email)
	}
	return out
}
