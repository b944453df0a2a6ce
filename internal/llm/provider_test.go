package llm

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var llmEnvVars = []string{
	"ADMITFLOW_LLM_PROVIDER", "ADMITFLOW_OPENAI_BASE_URL",
	"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	"ADMITFLOW_ANTHROPIC_API_KEY", "ADMITFLOW_ANTHROPIC_MODEL",
	"ADMITFLOW_OPENAI_API_KEY", "ADMITFLOW_OPENAI_MODEL",
	"ADMITFLOW_GEMINI_API_KEY", "ADMITFLOW_GEMINI_MODEL",
	"ADMITFLOW_OPENROUTER_API_KEY", "ADMITFLOW_OPENROUTER_MODEL",
}

func clearLLMEnv(t *testing.T) {
	for _, k := range llmEnvVars {
		t.Setenv(k, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"mock needs nothing", Config{Provider: "mock"}, ""},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "k"}}, ""},
		{"openai without key", Config{Provider: "openai"}, "ADMITFLOW_OPENAI_API_KEY"},
		{"openrouter without key", Config{Provider: "openrouter"}, "ADMITFLOW_OPENROUTER_API_KEY"},
		{"unknown provider", Config{Provider: "llama"}, `unknown LLM provider "llama"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ADMITFLOW_LLM_PROVIDER", "gemini")
	t.Setenv("ADMITFLOW_GEMINI_API_KEY", "g-key")
	t.Setenv("ADMITFLOW_GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("ADMITFLOW_OPENAI_BASE_URL", "http://localhost:11434/v1")

	cfg := ConfigFromEnv()
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
	assert.NoError(t, cfg.Validate())
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "a-key", cfg.Anthropic.APIKey)

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
}

func TestResolveConfig_ExplicitProviderWins(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("ADMITFLOW_LLM_PROVIDER", "mock")

	cfg, ok := ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, "mock", cfg.Provider)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(t.Context(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	cfg := DefaultConfig()
	cfg.Anthropic.APIKey = "k"
	p, err = NewProvider(t.Context(), cfg, &recordingRepo{})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
	assert.IsType(t, &RetryProvider{}, p)

	_, err = NewProvider(t.Context(), Config{Provider: "openai"}, nil)
	assert.Error(t, err)
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(notesJSON), Usage: Usage{InputTokens: 5, OutputTokens: 9}},
		MockResponse{Err: errors.New("boom")},
	)

	resp, err := m.Generate(t.Context(), reviewRequest(notesSchema))
	require.NoError(t, err)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, 14, resp.Usage.Total())

	_, err = m.Generate(t.Context(), reviewRequest(nil))
	assert.EqualError(t, err, "boom")

	_, err = m.Generate(t.Context(), reviewRequest(nil))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 3, m.CallCount())
	assert.Equal(t, "Subject: Physics\nLevel: Easy\nRecent Results: fail", m.Calls[0].Messages[0].Content)
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"title":3}`)})
	_, err := m.Generate(t.Context(), reviewRequest(notesSchema))
	assert.ErrorIs(t, err, ErrInvalidResponse)

	m.AddResponse(MockResponse{Content: json.RawMessage(notesJSON), StopReason: StopMaxTokens})
	_, err = m.Generate(t.Context(), reviewRequest(notesSchema))
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Kind: KindRateLimited, Provider: "gemini", StatusCode: 429, RetryAfter: 2 * time.Second, Err: cause}

	assert.Equal(t, "gemini: llm rate limited (HTTP 429): connection reset", err.Error())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.True(t, err.Temporary())

	wrapped := errors.Join(errors.New("review generation"), &Error{Kind: KindInvalidResponse})
	assert.ErrorIs(t, wrapped, ErrInvalidResponse)
	assert.Equal(t, "invalid llm response", (&Error{Kind: KindInvalidResponse}).Error())
}

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"claude-sonnet-4-20250514", &ModelCost{3, 15}},
		{"google/gemini-2.0-flash-exp", &ModelCost{0.1, 0.4}},
		{"anthropic/claude-haiku-4-5", &ModelCost{1, 5}},
		{"mock", nil},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupCost(tt.model))
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	assert.InDelta(t, 0.006, c.Cost(1000, 1000), 1e-12)
}
