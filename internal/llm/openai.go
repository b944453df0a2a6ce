package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider generates through the chat completions API. Any
// OpenAI-compatible endpoint works when BaseURL is set.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	name   string
}

// NewOpenAIProvider creates a provider for cfg.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cc),
		model:  resolveModel(cfg.Model, openaiModels),
		name:   "openai",
	}, nil
}

func (p *OpenAIProvider) Name() string    { return p.name }
func (p *OpenAIProvider) ModelID() string { return p.model }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chat.Messages = append(chat.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %q: %w", req.Schema.Name, err)
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}

	out, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	if len(out.Choices) == 0 {
		return nil, &Error{Kind: KindInvalidResponse, Provider: p.name, Err: errors.New("response has no choices")}
	}

	choice := out.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	return finish(p.name, req, choice.Message.Content, Response{
		Usage:      Usage{InputTokens: out.Usage.PromptTokens, OutputTokens: out.Usage.CompletionTokens},
		Model:      out.Model,
		StopReason: stop,
	})
}

func (p *OpenAIProvider) wrapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiError(p.name, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return apiError(p.name, reqErr.HTTPStatusCode, nil, err)
	}
	return &Error{Kind: KindUnavailable, Provider: p.name, Err: err}
}

var _ Provider = (*OpenAIProvider)(nil)
