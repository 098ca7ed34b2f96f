package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Gyankosh styling.
type TextInput struct {
	Model    textinput.Model
	Label    string
	MaxWidth int
}

// NewTextInput creates a new styled text input. It starts blurred.
func NewTextInput(label, placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{
		Model:    ti,
		Label:    label,
		MaxWidth: maxWidth,
	}
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the labelled input.
func (t TextInput) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Model.Focused() {
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	view := t.Model.View()
	if t.Label == "" {
		return view
	}
	return labelStyle.Render(t.Label+": ") + view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// Blank reports whether the input holds only whitespace.
func (t TextInput) Blank() bool {
	return strings.TrimSpace(t.Model.Value()) == ""
}
