package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/layout"
	"github.com/abhisek/gyankosh/internal/ui/theme"
)

const buttonWidth = 24

func (h *HomeScreen) View(width, height int) string {
	m := h.deps.Session
	st := m.State()
	cw := components.ContentWidth(width)

	if st.Loading {
		return components.Frame(h.renderLoading(cw), width, height)
	}

	var sections []string
	sections = append(sections, renderStats(m.Profile(), len(m.Library()), cw))

	if note := firstNonEmpty(st.Notice, h.voiceNote); note != "" {
		sections = append(sections, layout.RenderNotice(note, cw))
	}
	if !h.deps.LLMReady {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Accent).
			Width(cw).
			Align(lipgloss.Center).
			Render("⚠ Set an LLM API key to create lessons (see gyankosh --help)"))
	}

	sections = append(sections, h.renderForm(cw))
	if recs := h.renderRecommendations(cw); recs != "" {
		sections = append(sections, recs)
	}

	create := components.Button("CREATE LESSON", h.focus == h.createRow(), !m.CanCreate(), buttonWidth)
	sections = append(sections, lipgloss.PlaceHorizontal(cw, lipgloss.Center, create))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderForm(cw int) string {
	m := h.deps.Session
	st := m.State()
	cat := m.Catalog()

	grade := components.NewSelector("Grade", cat.Grades(), st.Grade)
	grade.Focused = h.focus == rowGrade

	subject := components.NewSelector("Subject", cat.SubjectsFor(st.Grade), st.Subject)
	subject.Focused = h.focus == rowSubject

	var names []string
	for _, l := range cat.Languages() {
		names = append(names, l.Name)
	}
	language := components.NewSelector("Language", names, st.Language)
	language.Focused = h.focus == rowLanguage

	lines := []string{grade.View(), subject.View(), language.View(), h.topic.View()}
	return components.Card(strings.Join(lines, "\n"), cw)
}

func (h *HomeScreen) renderRecommendations(cw int) string {
	recs := h.recommendations()
	if len(recs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Recommended for you"))
	for i, r := range recs {
		line := fmt.Sprintf("%s · %s", r.Subject, r.Topic)
		b.WriteString("\n")
		if h.focus == fixedRows+i {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
	}
	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

func (h *HomeScreen) renderLoading(cw int) string {
	st := h.deps.Session.State()
	spinner := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(components.SpinnerFrame(h.spin))
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("Writing your lesson on %q", strings.TrimSpace(st.Topic)))
	detail := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s · %s", st.Grade, st.Subject, st.Language))
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(spinner + " " + title + "\n\n" + detail)
}

func renderStats(p profile.UserProfile, saved, cw int) string {
	rank := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(profile.Title(p.Level))
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	stats := fmt.Sprintf("%s  %s  %s",
		rank,
		lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("◆ %d XP", p.XP)),
		dim.Render(fmt.Sprintf("%d saved", saved)),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
