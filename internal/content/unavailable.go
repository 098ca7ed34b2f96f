package content

import (
	"context"
	"errors"

	"github.com/abhisek/gyankosh/internal/library"
)

// ErrNoProvider is wrapped by Unavailable's lesson failures.
var ErrNoProvider = errors.New("no LLM provider configured")

// Unavailable stands in for Generator when no LLM provider is configured.
// Lessons fail with a GenerationError and the tutor answers with its
// fallback replies.
type Unavailable struct{}

func (Unavailable) GenerateLesson(context.Context, Request) (*library.Story, error) {
	return nil, &GenerationError{Stage: "request", Err: ErrNoProvider}
}

func (Unavailable) GenerateExplanation(context.Context, string, string) string {
	return ExplainFallback
}

func (Unavailable) AnswerQuestion(context.Context, string, string, string) string {
	return AnswerFallback
}
