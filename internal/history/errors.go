package history

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrStudentNotFound = errors.New("student not found")
	ErrNoBaseURL       = errors.New("history service URL is not configured (set ADMITFLOW_HISTORY_URL)")

	// ErrMalformedResponse wraps body decoding failures. These are not retried.
	ErrMalformedResponse = errors.New("malformed history response")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("history service returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("history service returned %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrStudentNotFound
	}
	return nil
}

// Temporary reports whether the request may succeed if retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
