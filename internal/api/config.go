package api

import (
	"os"
	"strings"
	"time"
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address. Default: ":8080".
	Addr string

	// AllowedOrigins lists CORS origins besides http://localhost:<port>.
	AllowedOrigins []string

	// ReviewTimeout bounds a single review generation request. Default: 60s.
	ReviewTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		ReviewTimeout: 60 * time.Second,
	}
}

// ConfigFromEnv reads ADMITFLOW_ADDR (or PORT) and ADMITFLOW_CORS_ORIGINS,
// a comma separated list.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if a := os.Getenv("ADMITFLOW_ADDR"); a != "" {
		cfg.Addr = a
	} else if p := os.Getenv("PORT"); p != "" {
		cfg.Addr = ":" + p
	}
	if o := os.Getenv("ADMITFLOW_CORS_ORIGINS"); o != "" {
		for _, origin := range strings.Split(o, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	return cfg
}
