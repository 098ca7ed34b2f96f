package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector component.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update handles keyboard navigation and selection. Options can also be
// picked directly by letter or number.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.submit(m.Selected)
	default:
		if i, ok := optionIndex(key, len(m.Options)); ok {
			m.Selected = i
			m.submit(i)
		}
	}

	return m, nil
}

func (m *MultiChoice) submit(i int) {
	m.Submitted = true
	m.ChosenIndex = i
}

func optionIndex(key string, n int) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= 'a' && c < 'a'+byte(n):
		return int(c - 'a'), true
	case c >= 'A' && c < 'A'+byte(n):
		return int(c - 'A'), true
	case c >= '1' && c < '1'+byte(n):
		return int(c - '1'), true
	}
	return 0, false
}

func optionLabel(i int) string {
	return string(rune('A' + i))
}

// View renders the multiple-choice component.
func (m MultiChoice) View() string {
	var b strings.Builder
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	b.WriteString(questionStyle.Render(m.Question) + "\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, optionLabel(i), opt)

		var style lipgloss.Style
		switch {
		case m.Submitted && i == m.CorrectIndex:
			style = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		case m.Submitted && i == m.ChosenIndex:
			style = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
		case m.Submitted:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		default:
			style = lipgloss.NewStyle().Foreground(theme.Text)
		}
		b.WriteString(style.Render(line) + "\n")
	}

	return b.String()
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
