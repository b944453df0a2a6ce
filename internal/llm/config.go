package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter" or
	// "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses the cheapest model of each provider, which is plenty
// for short study notes.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// backend binds a provider name to its credential fields. keyEnv is the
// vendor's conventional variable, checked by DiscoverConfig.
type backend struct {
	name   string
	keyEnv string
	key    func(*Config) *string
	model  func(*Config) *string
}

// backends is in discovery priority order.
var backends = []backend{
	{"gemini", "GEMINI_API_KEY",
		func(c *Config) *string { return &c.Gemini.APIKey },
		func(c *Config) *string { return &c.Gemini.Model }},
	{"openai", "OPENAI_API_KEY",
		func(c *Config) *string { return &c.OpenAI.APIKey },
		func(c *Config) *string { return &c.OpenAI.Model }},
	{"anthropic", "ANTHROPIC_API_KEY",
		func(c *Config) *string { return &c.Anthropic.APIKey },
		func(c *Config) *string { return &c.Anthropic.Model }},
	{"openrouter", "OPENROUTER_API_KEY",
		func(c *Config) *string { return &c.OpenRouter.APIKey },
		func(c *Config) *string { return &c.OpenRouter.Model }},
}

func envPrefix(name string) string {
	return "ADMITFLOW_" + strings.ToUpper(name) + "_"
}

// ConfigFromEnv reads ADMITFLOW_LLM_PROVIDER and the per-provider
// ADMITFLOW_<NAME>_API_KEY and ADMITFLOW_<NAME>_MODEL variables.
// ADMITFLOW_OPENAI_BASE_URL points the openai backend at a compatible API.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("ADMITFLOW_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	for _, b := range backends {
		if v := os.Getenv(envPrefix(b.name) + "API_KEY"); v != "" {
			*b.key(&cfg) = v
		}
		if v := os.Getenv(envPrefix(b.name) + "MODEL"); v != "" {
			*b.model(&cfg) = v
		}
	}
	if u := os.Getenv("ADMITFLOW_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}
	return cfg
}

// DiscoverConfig picks the first backend whose vendor API key variable is
// set. It returns false when none is.
func DiscoverConfig() (Config, bool) {
	for _, b := range backends {
		if k := os.Getenv(b.keyEnv); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = b.name
			*b.key(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers explicit ADMITFLOW_LLM_PROVIDER configuration and
// falls back to DiscoverConfig.
func ResolveConfig() (Config, bool) {
	if os.Getenv("ADMITFLOW_LLM_PROVIDER") != "" {
		return ConfigFromEnv(), true
	}
	return DiscoverConfig()
}

// Validate reports a missing API key for the selected provider.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	for _, b := range backends {
		if b.name != c.Provider {
			continue
		}
		if *b.key(&c) == "" {
			return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(b.name), b.name)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
