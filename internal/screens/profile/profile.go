// Package profile shows the learner's rank, stats and badges.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/layout"
	"github.com/abhisek/gyankosh/internal/ui/theme"
)

type ProfileScreen struct {
	deps *screen.Deps
	menu components.Menu
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)
var _ screen.SessionView = (*ProfileScreen)(nil)

func New(deps *screen.Deps) *ProfileScreen {
	s := &ProfileScreen{deps: deps}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Open library", Action: s.navigate(session.ViewLibrary), Disabled: len(deps.Session.Library()) == 0},
		{Label: "Back to home", Action: s.navigate(session.ViewHome)},
	})
	return s
}

func (s *ProfileScreen) navigate(v session.View) func() tea.Cmd {
	return func() tea.Cmd {
		s.deps.Session.Navigate(v)
		return nil
	}
}

func (s *ProfileScreen) Init() tea.Cmd { return nil }

func (s *ProfileScreen) Title() string { return "My Progress" }

func (s *ProfileScreen) SessionView() session.View { return session.ViewProfile }

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "L", Description: "Library"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "esc", "q":
			s.deps.Session.Navigate(session.ViewHome)
		case "l":
			s.deps.Session.Navigate(session.ViewLibrary)
		default:
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func (s *ProfileScreen) View(width, height int) string {
	p := s.deps.Session.Profile()
	cw := components.ContentWidth(width)

	sections := []string{
		renderRank(p, cw),
		components.Card(renderStats(p), cw),
		renderBadges(p, cw),
		s.menu.View(),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func renderRank(p profile.UserProfile, cw int) string {
	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(p.Name)
	rank := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("%s · Level %d", profile.Title(p.Level), p.Level))
	bar := components.NewProgressBar("", profile.LevelProgress(p), true, cw-10)
	next := theme.Hint.Render(fmt.Sprintf("%d / %d XP to level %d", p.XP, profile.NextLevelXP(p.Level), p.Level+1))
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(name + "\n" + rank + "\n\n" + bar.View() + "\n" + next)
}

func renderStats(p profile.UserProfile) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	val := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	rows := []struct {
		label string
		value string
	}{
		{"Total XP", fmt.Sprintf("◆ %d", p.XP)},
		{"Stories read", fmt.Sprint(p.StoriesRead)},
		{"Quizzes taken", fmt.Sprint(p.QuizzesTaken)},
		{"Perfect scores", fmt.Sprint(p.PerfectScores)},
		{"Daily streak", streak(p.StreakDays)},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, dim.Render(fmt.Sprintf("%-16s", r.label))+val.Render(r.value))
	}
	return strings.Join(lines, "\n")
}

func streak(days int) string {
	if days == 1 {
		return "★ 1 day"
	}
	return fmt.Sprintf("★ %d days", days)
}

func renderBadges(p profile.UserProfile, cw int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Badges"))
	for _, badge := range profile.Badges(p) {
		b.WriteString("\n")
		if badge.Earned {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("🏅 " + badge.Name))
			b.WriteString(theme.Hint.Render("  " + badge.Description))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("🔒 " + badge.Name))
			b.WriteString(theme.Hint.Render("  " + badge.Description))
		}
	}
	return lipgloss.NewStyle().Width(cw).Render(b.String())
}
