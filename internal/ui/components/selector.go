package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/ui/theme"
)

// Selector is a one-line option picker cycled with left and right.
type Selector struct {
	Label   string
	Options []string
	Index   int // -1 when nothing is chosen
	Focused bool
}

// NewSelector creates a selector positioned on current, or on nothing when
// current is not an option.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options, Index: -1}
	s.SetValue(current)
	return s
}

// Value returns the chosen option or "".
func (s Selector) Value() string {
	if s.Index < 0 || s.Index >= len(s.Options) {
		return ""
	}
	return s.Options[s.Index]
}

// SetValue moves to v if it is an option.
func (s *Selector) SetValue(v string) {
	s.Index = -1
	for i, o := range s.Options {
		if o == v {
			s.Index = i
			return
		}
	}
}

// Next returns the option after the current one, wrapping around.
func (s Selector) Next() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[(s.Index+1)%len(s.Options)]
}

// Prev returns the option before the current one, wrapping around.
func (s Selector) Prev() string {
	if len(s.Options) == 0 {
		return ""
	}
	i := s.Index - 1
	if i < 0 {
		i = len(s.Options) - 1
	}
	return s.Options[i]
}

// View renders "Label: ◂ value ▸".
func (s Selector) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valueStyle := lipgloss.NewStyle().Foreground(theme.Text)
	arrowStyle := lipgloss.NewStyle().Foreground(theme.Border)
	if s.Focused {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		valueStyle = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
		arrowStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	}
	value := s.Value()
	if value == "" {
		value = "choose…"
		valueStyle = valueStyle.Foreground(theme.TextDim).Italic(true)
	}
	return labelStyle.Render(s.Label+": ") +
		arrowStyle.Render("◂ ") + valueStyle.Render(value) + arrowStyle.Render(" ▸")
}
