// Package llm talks to hosted language models. Every provider returns JSON
// validated against a caller-supplied schema, and decorators add retries
// and request logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured output from a prompt.
type Provider interface {
	// Generate sends req and returns the model output. When req.Schema is set
	// the provider asks for structured output and Content is JSON that has
	// been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend ("anthropic", "openai", ...).
	Name() string

	// ModelID returns the model the provider is configured to use.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	System string

	// Messages is usually a single user message describing the student's
	// situation.
	Messages []Message

	// Schema, when set, constrains the response to JSON of this shape.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero means the provider default.
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "review-notes". It doubles as the cache key
	// for the compiled validator.
	Name string

	Description string

	Definition map[string]any
}

// StopReason is why the model stopped generating.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response holds the model output.
type Response struct {
	// Content is the validated JSON object when a schema was requested and
	// the raw model text otherwise.
	Content json.RawMessage

	Usage Usage

	// Model is the model that served the request as reported by the API.
	Model string

	StopReason StopReason
}

// Usage is token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
