package llm

import "strings"

// ModelCost holds pricing for a model in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter IDs ("google/gemini-2.5-flash") are priced as the
// upstream model.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	if _, upstream, ok := strings.Cut(modelID, "/"); ok {
		if c, ok := modelCosts[upstream]; ok {
			return &c
		}
	}
	return nil
}

// modelCosts covers the models the provider aliases and media defaults
// resolve to. Prices from models.dev, 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Anthropic (anthropicModels)
	"claude-haiku-4-5-20251001": {1, 5},
	"claude-sonnet-4-20250514":  {3, 15},
	"claude-opus-4-5":           {5, 25},

	// OpenAI (default and common overrides)
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4o":       {2.5, 10},
	"gpt-4.1-mini": {0.4, 1.6},

	// Gemini text (geminiModels)
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},

	// Gemini media (content.DefaultMediaConfig)
	"gemini-2.5-flash-image":       {0.3, 30},
	"gemini-2.5-flash-preview-tts": {0.5, 10},
}
