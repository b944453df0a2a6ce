package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Sentinels matched by errors.Is against an *Error.
var (
	ErrUnavailable     = errors.New("llm provider unavailable")
	ErrRateLimited     = errors.New("llm rate limited")
	ErrInvalidResponse = errors.New("invalid llm response")
	ErrTruncated       = errors.New("llm response truncated")
)

// Kind classifies a provider failure.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindInvalidResponse
	KindTruncated
)

func (k Kind) sentinel() error {
	switch k {
	case KindRateLimited:
		return ErrRateLimited
	case KindInvalidResponse:
		return ErrInvalidResponse
	case KindTruncated:
		return ErrTruncated
	default:
		return ErrUnavailable
	}
}

// Error is returned by every provider for API and output failures.
type Error struct {
	Kind     Kind
	Provider string

	// StatusCode is the HTTP status of the failed call, or 0.
	StatusCode int

	// RetryAfter is the server-requested delay for rate limits, or 0.
	RetryAfter time.Duration

	// Content is the offending model output for invalid or truncated
	// responses.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// Temporary reports whether retrying the same request may succeed.
func (e *Error) Temporary() bool {
	return e.Kind == KindUnavailable || e.Kind == KindRateLimited
}

// apiError classifies a failed API call by its HTTP status.
func apiError(provider string, status int, header http.Header, err error) *Error {
	e := &Error{Kind: KindUnavailable, Provider: provider, StatusCode: status, Err: err}
	if status == http.StatusTooManyRequests {
		e.Kind = KindRateLimited
		if header != nil {
			e.RetryAfter = retryAfter(header.Get("Retry-After"))
		}
	}
	return e
}

func retryAfter(v string) time.Duration {
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
