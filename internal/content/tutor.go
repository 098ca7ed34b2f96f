package content

import (
	"context"
	"strings"

	"github.com/abhisek/gyankosh/internal/llm"
)

// Replies shown when the tutor cannot help.
const (
	ExplainFallback = "Let's continue reading to find out more!"
	ExplainEmpty    = "I couldn't explain that right now."
	AnswerFallback  = "I'm having a little trouble thinking right now. Ask me again?"
	AnswerEmpty     = "That's a good question! I'm thinking..."
)

// GenerateExplanation restates text simply in language. It never fails.
func (g *Generator) GenerateExplanation(ctx context.Context, text, language string) string {
	return g.tutor(llm.WithPurpose(ctx, "explain"), explainPrompt,
		buildExplainMessage(text, language), ExplainFallback, ExplainEmpty)
}

// AnswerQuestion answers a learner question about passage. It never fails.
func (g *Generator) AnswerQuestion(ctx context.Context, passage, question, language string) string {
	return g.tutor(llm.WithPurpose(ctx, "ask"), askPrompt,
		buildAskMessage(passage, question, language), AnswerFallback, AnswerEmpty)
}

func (g *Generator) tutor(ctx context.Context, system, msg, fallback, empty string) string {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		MaxTokens:   g.cfg.TutorMaxTokens,
		Temperature: g.cfg.TutorTemperature,
	})
	if err != nil {
		g.log.Warn("tutor request failed", "purpose", llm.PurposeFrom(ctx), "error", err)
		return fallback
	}
	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text
	}
	return empty
}
