package llm

import "errors"

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider returns an OpenAIProvider pointed at OpenRouter,
// which speaks the chat completions protocol.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = openRouterBaseURL
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: base})
	if err != nil {
		return nil, err
	}
	p.name = "openrouter"
	return p, nil
}
