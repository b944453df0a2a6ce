package llm

import (
	"context"
	"fmt"

	"github.com/admitflow/admitflow/internal/store"
)

// NewProvider builds the provider cfg selects. Calls pass through retry,
// then logging, then the backend, so every individual attempt is recorded.
// events may be nil to skip recording.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		p, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		p = WithLogging(p, events)
	}
	return WithRetry(p, cfg.Retry), nil
}
