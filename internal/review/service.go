// Package review generates AI study notes for a subject level.
package review

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/admitflow/admitflow/internal/llm"
)

// Service generates review notes with an LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a review notes service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type notesOutput struct {
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	KeyConcepts  []string `json:"key_concepts"`
	PracticeTips []string `json:"practice_tips"`
}

// Generate produces notes for input. It blocks until the provider responds.
func (s *Service) Generate(ctx context.Context, input Input) (*Notes, error) {
	ctx = llm.WithPurpose(ctx, "review")

	req := llm.Request{
		System: notesSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildNotesUserMessage(input)},
		},
		Schema:      NotesSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("review generation: %w", err)
	}

	var out notesOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse review response: %w", err)
	}

	return &Notes{
		Subject:      input.Subject,
		Level:        input.State.Level,
		Title:        out.Title,
		Summary:      out.Summary,
		KeyConcepts:  out.KeyConcepts,
		PracticeTips: out.PracticeTips,
	}, nil
}
