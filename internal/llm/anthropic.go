package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// AnthropicProvider generates through the Messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for cfg. The SDK's own retries are
// disabled; wrap the provider with WithRetry instead.
func NewAnthropicProvider(cfg AnthropicConfig, opts ...option.RequestOption) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := anthropic.NewClient(opts...)
	return &AnthropicProvider{client: &client, model: resolveModel(cfg.Model, anthropicModels)}, nil
}

func (p *AnthropicProvider) Name() string    { return "anthropic" }
func (p *AnthropicProvider) ModelID() string { return p.model }

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	var text string
	found := false
	for _, block := range msg.Content {
		if block.Type == "text" {
			text, found = block.Text, true
			break
		}
	}
	if !found {
		return nil, &Error{Kind: KindInvalidResponse, Provider: p.Name(), Err: errors.New("no text block in message")}
	}

	stop := StopEnd
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		stop = StopMaxTokens
	}
	return finish(p.Name(), req, text, Response{
		Usage:      Usage{InputTokens: int(msg.Usage.InputTokens), OutputTokens: int(msg.Usage.OutputTokens)},
		Model:      string(msg.Model),
		StopReason: stop,
	})
}

func (p *AnthropicProvider) wrapErr(err error) error {
	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return &Error{Kind: KindUnavailable, Provider: p.Name(), Err: err}
	}
	var header http.Header
	if apiErr.Response != nil {
		header = apiErr.Response.Header
	}
	return apiError(p.Name(), apiErr.StatusCode, header, err)
}

// resolveModel maps a short alias to a full model ID. Unknown names are
// passed through so callers can pin exact IDs.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

var _ Provider = (*AnthropicProvider)(nil)
