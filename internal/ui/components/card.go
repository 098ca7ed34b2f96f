package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all card sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double-border frame, centering it vertically
// and horizontally within the given dimensions.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Button renders a fixed-width button. Disabled buttons are dimmed and
// never highlighted.
func Button(label string, selected, disabled bool, width int) string {
	base := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	switch {
	case disabled:
		return base.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	case selected:
		return base.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return base.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
}

// Spinner frames for in-flight work.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerFrame returns the spinner glyph for tick n.
func SpinnerFrame(n int) string {
	return spinnerFrames[n%len(spinnerFrames)]
}
