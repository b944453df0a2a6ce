package review

import "github.com/admitflow/admitflow/internal/llm"

// NotesSchema defines the JSON schema for review note generation.
var NotesSchema = &llm.Schema{
	Name:        "review-notes",
	Description: "Study notes for an admission test level with key concepts and practice tips",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the notes (3-8 words)",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "What this level tests and how the student is doing (3-5 sentences)",
			},
			"key_concepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3-6 concepts to revise (5-12 words each)",
			},
			"practice_tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 concrete practice suggestions (5-15 words each)",
			},
		},
		"required":             []any{"title", "summary", "key_concepts", "practice_tips"},
		"additionalProperties": false,
	},
}
