package screen

import (
	"context"
	"math/rand/v2"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gyankosh/internal/audio"
	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/playback"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/voice"
)

// Tutor answers follow-up questions while reading. Both calls always
// return something to show.
type Tutor interface {
	GenerateExplanation(ctx context.Context, text, language string) string
	AnswerQuestion(ctx context.Context, passage, question, language string) string
}

// Deps is shared by every screen. All fields except Session are optional
// in tests.
type Deps struct {
	Ctx        context.Context
	Session    *session.Machine
	Tutor      Tutor
	Prefetcher *playback.Prefetcher
	Player     *audio.Player
	Voice      voice.Capability
	Rand       *rand.Rand
	Log        *logger.Logger

	// LLMReady is false when no lesson provider is configured.
	LLMReady bool

	// ExportDir receives illustrations the learner saves.
	ExportDir string
}

// Context returns d.Ctx or a background context.
func (d *Deps) Context() context.Context {
	if d.Ctx == nil {
		return context.Background()
	}
	return d.Ctx
}

// Logger returns d.Log or a no-op logger.
func (d *Deps) Logger() *logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

// LessonResultMsg carries the outcome of a lesson request.
type LessonResultMsg struct {
	Ticket  session.Ticket
	Request content.Request
	Story   *library.Story
	Err     error
}

// TranscriptMsg carries a finished voice capture.
type TranscriptMsg struct {
	Text string
	Err  error
}

// PrefetchedMsg reports media that arrived for a lesson.
type PrefetchedMsg struct {
	StoryID string
	Fetched []playback.Fetched
	Err     error
}

// CreateLesson starts a lesson request. It returns nil when the session
// refuses the request.
func CreateLesson(d *Deps) tea.Cmd {
	ticket, req, ok := d.Session.BeginCreate()
	if !ok {
		return nil
	}
	ctx := d.Context()
	return func() tea.Msg {
		story, err := d.Session.Generate(ctx, req)
		return LessonResultMsg{Ticket: ticket, Request: req, Story: story, Err: err}
	}
}

// Listen captures one voice transcript.
func Listen(d *Deps) tea.Cmd {
	if d.Voice == nil || !d.Voice.Available() {
		return nil
	}
	ctx := d.Context()
	return func() tea.Msg {
		text, err := d.Voice.Listen(ctx)
		return TranscriptMsg{Text: text, Err: err}
	}
}

// Prefetch loads media for the given pages of s in the background.
func Prefetch(d *Deps, s *library.Story, pages []int) tea.Cmd {
	if d.Prefetcher == nil || s == nil || len(pages) == 0 {
		return nil
	}
	ctx := d.Context()
	return func() tea.Msg {
		fetched, err := d.Prefetcher.Prefetch(ctx, s, pages)
		return PrefetchedMsg{StoryID: s.ID, Fetched: fetched, Err: err}
	}
}
