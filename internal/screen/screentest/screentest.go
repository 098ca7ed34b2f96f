// Package screentest builds screen dependencies backed by a temporary
// store for screen tests.
package screentest

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/catalog"
	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/store"
)

// Today is the fixed clock used by NewDeps.
var Today = time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)

// Generator returns a copy of Story for every request.
type Generator struct {
	Story *library.Story
	Err   error
}

func (g *Generator) GenerateLesson(_ context.Context, _ content.Request) (*library.Story, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	s := *g.Story
	return &s, nil
}

// Tutor answers with fixed strings.
type Tutor struct{}

func (Tutor) GenerateExplanation(_ context.Context, text, _ string) string {
	return "explained: " + text
}

func (Tutor) AnswerQuestion(_ context.Context, _, question, _ string) string {
	return "answer to " + question
}

// Env is a screen test environment.
type Env struct {
	Deps   *screen.Deps
	Gen    *Generator
	Events *store.EventStore
}

// NewDeps opens a temporary store and wires a session with a fake
// generator that returns Story(pages, questions).
func NewDeps(t *testing.T, pages, questions int) *Env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "gyankosh.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	repo := st.DocumentRepo()
	profiles, err := profile.Load(ctx, repo, logger.Nop(), Today)
	require.NoError(t, err)
	lib, err := library.Load(ctx, repo, logger.Nop())
	require.NoError(t, err)

	gen := &Generator{Story: Story(pages, questions)}
	m := session.New(session.Options{
		Catalog:   catalog.Default(),
		Profiles:  profiles,
		Library:   lib,
		Generator: gen,
		Events:    st.EventRepo(),
		Now:       func() time.Time { return Today },
	})
	return &Env{
		Deps: &screen.Deps{
			Ctx:      ctx,
			Session:  m,
			Tutor:    Tutor{},
			Rand:     rand.New(rand.NewPCG(1, 2)),
			LLMReady: true,
		},
		Gen:    gen,
		Events: st.EventRepo(),
	}
}

// CreateLesson selects a Science lesson on water and creates it
// synchronously.
func (e *Env) CreateLesson(t *testing.T) *library.Story {
	t.Helper()
	m := e.Deps.Session
	require.True(t, m.SelectGrade("Class 3"))
	require.True(t, m.SelectSubject("Science"))
	m.EditTopic("Water")
	s, err := m.Create(context.Background())
	require.NoError(t, err)
	return s
}

// Story builds a lesson whose quiz answers are always the first option.
func Story(pages, questions int) *library.Story {
	s := &library.Story{
		Title:        "The Journey of Water",
		Summary:      "Where rain comes from and where it goes.",
		ChapterParts: []string{"Clouds", "Rivers"},
		Vocabulary:   []library.VocabularyItem{{Word: "Evaporation", Definition: "Water turning into vapour."}},
	}
	for i := range pages {
		s.Pages = append(s.Pages, library.Page{
			PageNumber:  i + 1,
			PartTitle:   "Clouds",
			Text:        fmt.Sprintf("Page %d about water.", i+1),
			Layout:      library.LayoutTextLeft,
			VisualStyle: library.StyleIllustration,
			KeyConcepts: []string{"evaporation"},
			DeepDive:    "Water vapour cools into droplets.",
		})
	}
	for i := range questions {
		s.Quiz = append(s.Quiz, library.QuizQuestion{
			Question:    fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"Yes", "No"},
			Explanation: "Because it is.",
		})
	}
	return s
}

// Key builds a key press for a printable key or a named key.
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	if rest, ok := strings.CutPrefix(s, "ctrl+"); ok {
		return tea.KeyPressMsg{Code: []rune(rest)[0], Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}
