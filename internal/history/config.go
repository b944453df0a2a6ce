package history

import (
	"os"
	"time"
)

// Config holds attempt-history service settings.
type Config struct {
	// BaseURL is the service root, e.g. "https://api.example.com/v1".
	BaseURL string
	// Token is sent as a bearer token when set.
	Token string

	Retry RetryConfig

	// Timeout bounds a single HTTP request. Default: 15s.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 15 * time.Second,
	}
}

// ConfigFromEnv builds a Config from ADMITFLOW_HISTORY_URL and
// ADMITFLOW_HISTORY_TOKEN, falling back to defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if u := os.Getenv("ADMITFLOW_HISTORY_URL"); u != "" {
		cfg.BaseURL = u
	}
	if t := os.Getenv("ADMITFLOW_HISTORY_TOKEN"); t != "" {
		cfg.Token = t
	}
	return cfg
}
