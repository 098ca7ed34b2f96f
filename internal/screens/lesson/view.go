package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/theme"
)

const pictureWidth = 26

func (l *LessonScreen) View(width, height int) string {
	if l.story == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No lesson is open. Press any key to go home."))
	}

	cw := components.ContentWidth(width)
	var sections []string
	if l.cursor.IsCover() {
		sections = append(sections, l.renderCover(cw))
	} else {
		sections = append(sections, l.renderPage(cw))
	}
	if panel := l.renderTutor(cw); panel != "" {
		sections = append(sections, panel)
	}
	if l.asking {
		sections = append(sections, components.Card(l.question.View(), cw))
	}
	sections = append(sections, l.renderStatus(cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (l *LessonScreen) renderCover(cw int) string {
	s := l.story
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Width(cw).Align(lipgloss.Center).Render(s.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.SubjectColor(s.Subject)).Width(cw).Align(lipgloss.Center).
		Render(fmt.Sprintf("%s · %s · %s", s.Subject, s.Grade, s.Language)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(cw).Render(s.Summary))

	if len(s.ChapterParts) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("In this lesson"))
		for i, part := range s.ChapterParts {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, part))
		}
	}
	if len(s.Vocabulary) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("Words to know"))
		for _, v := range s.Vocabulary {
			b.WriteString("\n  ")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(v.Word))
			b.WriteString(theme.Hint.Render(": " + v.Definition))
		}
	}
	return b.String()
}

func (l *LessonScreen) renderPage(cw int) string {
	page := l.story.Pages[l.cursor.Index()]

	var head strings.Builder
	if page.PartTitle != "" {
		head.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(page.PartTitle))
		head.WriteString("  ")
	}
	// Position in the lesson comes from the cursor. The stored page
	// number is only a label.
	head.WriteString(theme.Hint.Render(fmt.Sprintf("page %d of %d", l.cursor.Index()+1, l.cursor.Pages())))

	picture := l.renderPicture(page)
	textWidth := cw
	switch page.Layout {
	case library.LayoutTextLeft, library.LayoutTextRight:
		textWidth = max(cw-pictureWidth-2, 20)
	}
	text := l.renderText(page, textWidth)

	var body string
	switch page.Layout {
	case library.LayoutTextLeft:
		body = lipgloss.JoinHorizontal(lipgloss.Top, text, "  ", picture)
	case library.LayoutTextRight:
		body = lipgloss.JoinHorizontal(lipgloss.Top, picture, "  ", text)
	case library.LayoutTextBottom, library.LayoutFullVisual:
		body = lipgloss.JoinVertical(lipgloss.Center, picture, "", text)
	default:
		body = lipgloss.JoinVertical(lipgloss.Center, text, "", picture)
	}
	return head.String() + "\n\n" + body
}

func (l *LessonScreen) renderText(page library.Page, width int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Width(width).Render(page.Text))

	if len(page.KeyConcepts) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render("Key ideas"))
		for _, c := range page.KeyConcepts {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render("• " + c))
		}
	}
	if page.TeacherTip != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Tip.Width(width).Render("Tip: " + page.TeacherTip))
	}
	if page.DeepDive != "" {
		b.WriteString("\n\n")
		if l.deepDive {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("Deep dive"))
			b.WriteString("\n")
			b.WriteString(theme.Body.Width(width).Render(page.DeepDive))
		} else {
			b.WriteString(theme.Hint.Render("Press D for a deep dive."))
		}
	}
	return b.String()
}

func (l *LessonScreen) renderPicture(page library.Page) string {
	img, ok := l.illustration()
	var status string
	switch {
	case !ok:
		status = theme.Hint.Render("drawing…")
	case img == nil || img.Placeholder:
		status = theme.Hint.Render("picture unavailable")
	default:
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("picture ready · X to save")
	}

	style := string(page.VisualStyle)
	if style == "" {
		style = string(library.StyleIllustration)
	}
	label := lipgloss.NewStyle().Foreground(theme.SubjectColor(l.story.Subject)).Bold(true).Render("[" + style + "]")

	width := pictureWidth
	if page.Layout == library.LayoutFullVisual {
		width = pictureWidth * 2
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Align(lipgloss.Center).
		Padding(1, 1).
		Render(label + "\n" + status)
}

func (l *LessonScreen) renderTutor(cw int) string {
	if !l.tutorBusy && l.tutorText == "" {
		return ""
	}
	var b strings.Builder
	if l.tutorAsk != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("You asked: " + l.tutorAsk))
		b.WriteString("\n")
	}
	if l.tutorBusy {
		b.WriteString(theme.Hint.Render("Thinking…"))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(l.tutorText))
	}
	return components.Card(b.String(), cw)
}

func (l *LessonScreen) renderStatus(cw int) string {
	var parts []string
	if l.playingPage != noPending {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render("♪ reading aloud · S to stop"))
	}
	if l.note != "" {
		parts = append(parts, theme.Hint.Render(l.note))
	}

	progress := components.NewProgressBar("", float64(l.cursor.Index()+1)/float64(max(l.cursor.Pages(), 1)), false, cw)
	if len(parts) == 0 {
		return progress.View()
	}
	return progress.View() + "\n" + strings.Join(parts, "   ")
}
