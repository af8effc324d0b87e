package calendar

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"google.golang.org/api/googleapi"
)

// The client translates the service's HTTP failures into a small taxonomy.
// Callers pick a category with errors.Is / errors.As; no retry or backoff
// happens here.
var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrNetwork          = errors.New("network error")
)

// APIError carries the service's own message for failures that do not fall
// into one of the named categories (400 and friends).
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar API error (HTTP %d): %s", e.Code, e.Message)
}

// wrapError maps a Calendar API failure onto the error taxonomy, keeping the
// operation name as context. Unrecognized errors pass through with their
// original message.
func wrapError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", op, ErrAuthRequired)
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			msg := gerr.Message
			if msg == "" {
				msg = http.StatusText(gerr.Code)
			}
			return fmt.Errorf("%s: %w", op, &APIError{Code: gerr.Code, Message: msg})
		}
	}

	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w: %v", op, ErrNetwork, uerr.Err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return fmt.Errorf("%s: %w: %v", op, ErrNetwork, nerr)
	}

	return fmt.Errorf("%s: %w", op, err)
}
