package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/gyankosh/internal/catalog"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/llm"
	"github.com/abhisek/gyankosh/internal/logger"
)

// Generator turns learner requests into lessons and tutor replies.
type Generator struct {
	provider llm.Provider
	catalog  *catalog.Catalog
	cfg      Config
	log      *logger.Logger
}

// NewGenerator creates a generator backed by provider.
func NewGenerator(provider llm.Provider, cat *catalog.Catalog, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: provider, catalog: cat, cfg: cfg, log: log.With("component", "content")}
}

// GenerateLesson asks the provider for a complete lesson. The returned
// story carries content and language only; identity and provenance are
// stamped by the caller. Every failure is a *GenerationError.
func (g *Generator) GenerateLesson(ctx context.Context, req Request) (*library.Story, error) {
	ctx = llm.WithPurpose(ctx, "lesson")
	highSchool := g.catalog.IsHighSchool(req.Grade)

	temperature := g.cfg.PrimaryTemperature
	if highSchool {
		temperature = g.cfg.HighSchoolTemperature
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: buildLessonSystemPrompt(highSchool),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonUserMessage(req, highSchool)},
		},
		Schema:      StorySchema,
		MaxTokens:   g.cfg.LessonMaxTokens,
		Temperature: temperature,
	})

	var raw []byte
	var invalid *llm.ErrInvalidResponse
	switch {
	case err == nil:
		raw = resp.Content
	case errors.As(err, &invalid) && len(invalid.Content) > 0:
		// Models sometimes wrap good JSON in fences or chatter.
		g.log.Debug("salvaging lesson from invalid response", "error", invalid.Err)
		raw = invalid.Content
	default:
		return nil, &GenerationError{Stage: "request", Err: err}
	}

	story, err := decodeStory(raw)
	if err != nil {
		return nil, &GenerationError{Stage: "decode", Err: err}
	}
	if err := repairStory(story); err != nil {
		return nil, &GenerationError{Stage: "validate", Err: err}
	}
	story.Language = req.Language

	g.log.Info("lesson generated",
		"topic", req.Topic, "grade", req.Grade, "pages", len(story.Pages), "questions", len(story.Quiz))
	return story, nil
}

// cleanJSON strips markdown fences and any text outside the outermost
// braces.
func cleanJSON(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first != -1 && last > first {
		cleaned = cleaned[first : last+1]
	}
	return cleaned
}

func decodeStory(raw []byte) (*library.Story, error) {
	var story library.Story
	if err := json.Unmarshal([]byte(cleanJSON(string(raw))), &story); err != nil {
		return nil, fmt.Errorf("parse lesson response: %w", err)
	}
	return &story, nil
}

// repairStory normalizes model output in place: unknown layouts and styles
// get defaults, empty pages and broken questions are dropped, and page
// numbers follow storage order.
func repairStory(s *library.Story) error {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return errors.New("lesson has no title")
	}
	s.ID = ""
	s.Summary = strings.TrimSpace(s.Summary)
	s.ChapterParts = compact(s.ChapterParts)

	pages := s.Pages[:0]
	for _, p := range s.Pages {
		p.Text = strings.TrimSpace(p.Text)
		if p.Text == "" {
			continue
		}
		if !p.Layout.Valid() {
			p.Layout = library.LayoutTextLeft
		}
		if !p.VisualStyle.Valid() {
			p.VisualStyle = library.StyleIllustration
		}
		p.KeyConcepts = compact(p.KeyConcepts)
		p.Illustration = nil
		p.PageNumber = len(pages) + 1
		pages = append(pages, p)
	}
	if len(pages) == 0 {
		return errors.New("lesson has no usable pages")
	}
	s.Pages = pages

	vocab := s.Vocabulary[:0]
	for _, v := range s.Vocabulary {
		if strings.TrimSpace(v.Word) != "" {
			vocab = append(vocab, v)
		}
	}
	s.Vocabulary = vocab

	quiz := s.Quiz[:0]
	for _, q := range s.Quiz {
		q.Options, q.CorrectIndex = compactOptions(q.Options, q.CorrectIndex)
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 || q.CorrectIndex < 0 {
			continue
		}
		quiz = append(quiz, q)
	}
	s.Quiz = quiz
	return nil
}

// compactOptions drops blank options and moves correct to the answer's new
// position. correct is -1 when the answer was blank or out of range.
func compactOptions(in []string, correct int) ([]string, int) {
	out := make([]string, 0, len(in))
	moved := -1
	for i, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if i == correct {
			moved = len(out)
		}
		out = append(out, v)
	}
	return out, moved
}

func compact(in []string) []string {
	out := in[:0]
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
