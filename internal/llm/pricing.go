package llm

import (
	"regexp"
	"strings"
)

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices a token count.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost returns pricing for modelID, or nil when unknown. IDs are
// matched after dropping an OpenRouter vendor prefix ("google/"), an "-exp"
// or "-latest" suffix, and a release date suffix, so "claude-haiku-4-5-20251001"
// and "anthropic/claude-haiku-4-5" price the same.
func LookupCost(modelID string) *ModelCost {
	for _, id := range costKeys(modelID) {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
	}
	return nil
}

var dateSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

func costKeys(id string) []string {
	keys := []string{id}
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
		keys = append(keys, id)
	}
	for _, suffix := range []string{"-exp", "-latest"} {
		if trimmed, ok := strings.CutSuffix(id, suffix); ok {
			id = trimmed
			keys = append(keys, id)
		}
	}
	if trimmed := dateSuffix.ReplaceAllString(id, ""); trimmed != id {
		keys = append(keys, trimmed)
	}
	return keys
}

// modelCosts covers the models reachable through DefaultConfig aliases and
// their close siblings. Prices from the vendors' public pages, 2026-02.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-5":   {5, 25},
	"claude-3-5-haiku":  {0.8, 4},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-5-mini":   {0.25, 2},
	"o4-mini":      {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.0-pro":        {1.25, 10},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-pro":        {1.25, 10},
}
