package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries temporary failures with jittered exponential
// backoff. An invalid response is retried once; truncation never is, since
// the same token limit would cut the output again.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps p with retries.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Name() string    { return r.inner.Name() }
func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	invalidSeen := false

	var err error
	for attempt := range attempts {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch {
		case ctx.Err() != nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, ErrTruncated):
			return nil, err
		case errors.Is(err, ErrInvalidResponse):
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}

		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}
	return nil, err
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var llmErr *Error
	if errors.As(err, &llmErr) && llmErr.RetryAfter > 0 {
		return llmErr.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}
