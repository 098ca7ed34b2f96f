// Package library lists saved lessons so they can be reopened or removed.
package library

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/layout"
	"github.com/abhisek/gyankosh/internal/ui/theme"
)

// LibraryScreen shows saved lessons, newest first.
type LibraryScreen struct {
	deps       *screen.Deps
	cursor     int
	offset     int
	confirming bool
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)
var _ screen.SessionView = (*LibraryScreen)(nil)

// New creates the library screen.
func New(deps *screen.Deps) *LibraryScreen {
	return &LibraryScreen{deps: deps}
}

func (s *LibraryScreen) Init() tea.Cmd { return nil }

func (s *LibraryScreen) Title() string { return "My Library" }

func (s *LibraryScreen) SessionView() session.View { return session.ViewLibrary }

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	if len(s.stories()) == 0 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Open"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LibraryScreen) stories() library.Library {
	return s.deps.Session.Library()
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	stories := s.stories()

	if s.confirming {
		switch kmsg.String() {
		case "y", "Y":
			s.confirming = false
			if s.cursor < len(stories) {
				if err := s.deps.Session.DeleteSaved(s.deps.Context(), stories[s.cursor].ID); err != nil {
					s.deps.Logger().Warn("deleting lesson failed", "error", err)
				}
			}
			s.clamp()
		case "n", "N", "esc":
			s.confirming = false
		}
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(stories)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(stories) {
			s.deps.Session.OpenSaved(stories[s.cursor].ID)
		}
	case "d", "delete", "backspace":
		if s.cursor < len(stories) {
			s.confirming = true
		}
	case "esc":
		s.deps.Session.Navigate(session.ViewHome)
	}
	return s, nil
}

func (s *LibraryScreen) clamp() {
	n := len(s.stories())
	if s.cursor >= n {
		s.cursor = max(n-1, 0)
	}
}

func (s *LibraryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	stories := s.stories()

	var sections []string
	if note := s.deps.Session.State().Notice; note != "" {
		sections = append(sections, layout.RenderNotice(note, cw))
	}

	if len(stories) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Align(lipgloss.Center).
			Render("Your library is empty.\nCreate a lesson and it will be saved here.")
		sections = append(sections, empty)
		return components.Frame(strings.Join(sections, "\n\n"), width, height)
	}

	title := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("%d saved %s", len(stories), pluralLessons(len(stories))))
	sections = append(sections, title)

	// Each row is two lines plus a gap.
	visible := max((height-10)/3, 1)
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+visible {
		s.offset = s.cursor - visible + 1
	}
	end := min(s.offset+visible, len(stories))

	var rows []string
	for i := s.offset; i < end; i++ {
		rows = append(rows, renderRow(stories[i], i == s.cursor, cw))
	}
	sections = append(sections, strings.Join(rows, "\n"))

	if s.confirming && s.cursor < len(stories) {
		sections = append(sections, layout.RenderNotice(fmt.Sprintf("Delete %q? (y/n)", stories[s.cursor].Title), cw))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func renderRow(st library.Story, selected bool, cw int) string {
	prefix := "  "
	titleStyle := theme.Unselected
	if selected {
		prefix = "▸ "
		titleStyle = theme.Selected
	}
	meta := fmt.Sprintf("%s · %s · %s · %s", st.Subject, st.Grade, st.Language, st.CreatedAt.Local().Format("2 Jan 2006"))
	if st.HasQuiz() {
		meta += fmt.Sprintf(" · %d questions", len(st.Quiz))
	}
	dot := lipgloss.NewStyle().Foreground(theme.SubjectColor(st.Subject)).Render("●")
	return lipgloss.NewStyle().Width(cw).Render(
		titleStyle.Render(prefix+st.Title) + "\n    " + dot + " " + theme.Hint.Render(meta),
	)
}

func pluralLessons(n int) string {
	if n == 1 {
		return "lesson"
	}
	return "lessons"
}
