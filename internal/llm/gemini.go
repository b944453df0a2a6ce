package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// GeminiProvider generates through the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a provider for cfg.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiModels)}, nil
}

func (p *GeminiProvider) Name() string    { return "gemini" }
func (p *GeminiProvider) ModelID() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		cfg.Temperature = &t
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiSchema(req.Schema.Definition)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	out, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, apiError(p.Name(), apiErr.Code, nil, err)
		}
		return nil, &Error{Kind: KindUnavailable, Provider: p.Name(), Err: err}
	}

	resp := Response{Model: p.model, StopReason: StopEnd}
	if out.ModelVersion != "" {
		resp.Model = out.ModelVersion
	}
	if len(out.Candidates) > 0 && out.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		resp.StopReason = StopMaxTokens
	}
	if u := out.UsageMetadata; u != nil {
		resp.Usage = Usage{InputTokens: int(u.PromptTokenCount), OutputTokens: int(u.CandidatesTokenCount)}
	}
	return finish(p.Name(), req, out.Text(), resp)
}

// geminiSchema converts the JSON Schema subset used by review prompts into
// Gemini's OpenAPI-flavoured schema.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: geminiTypes[stringField(def, "type")]}
	if s.Type == "" {
		s.Type = genai.TypeString
	}
	s.Description = stringField(def, "description")

	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if sub, ok := v.(map[string]any); ok {
				s.Properties[name] = geminiSchema(sub)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	s.Required = stringList(def["required"])
	s.Enum = stringList(def["enum"])
	return s
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringList accepts both []any (decoded JSON) and []string (Go literals).
func stringList(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		var out []string
		for _, x := range vs {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

var _ Provider = (*GeminiProvider)(nil)
