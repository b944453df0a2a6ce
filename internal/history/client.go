// Package history fetches a student's attempt history from the remote
// AdmitFlow service.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/admitflow/admitflow/internal/attempts"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Client talks to the attempt-history endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse history URL: %w", err)
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// Fetch returns the student's attempts in the order the service lists them.
func (c *Client) Fetch(ctx context.Context, studentID string) ([]attempts.Record, error) {
	var lastErr error
	for attempt := range c.cfg.Retry.MaxAttempts {
		recs, err := c.fetchOnce(ctx, studentID)
		if err == nil {
			return recs, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}
		if attempt == c.cfg.Retry.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff(attempt, err)):
		}
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, studentID string) ([]attempts.Record, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/students/" + url.PathEscape(studentID) + "/attempts"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	recs, err := attempts.DecodeHistory(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	for i := range recs {
		recs[i].StudentID = studentID
	}
	return recs, nil
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	return true
}

func (c *Client) backoff(attempt int, err error) time.Duration {
	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > 0 {
		return se.RetryAfter
	}

	r := c.cfg.Retry
	wait := float64(r.InitialWait) * math.Pow(r.Multiplier, float64(attempt))
	if wait > float64(r.MaxWait) {
		wait = float64(r.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t)
	}
	return 0
}
