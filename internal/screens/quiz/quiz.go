// Package quiz runs the end-of-lesson quiz.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/layout"
	"github.com/abhisek/gyankosh/internal/ui/theme"
)

// QuizScreen asks each question of the active lesson once and reports the
// score to the session.
type QuizScreen struct {
	deps      *screen.Deps
	story     *library.Story
	index     int
	choice    components.MultiChoice
	score     int
	finished  bool
	saveError string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.SessionView = (*QuizScreen)(nil)

// New creates the quiz for the session's active lesson.
func New(deps *screen.Deps) *QuizScreen {
	q := &QuizScreen{deps: deps, story: deps.Session.State().Active}
	if q.total() == 0 {
		q.finished = true
		return q
	}
	q.load()
	return q
}

func (q *QuizScreen) Init() tea.Cmd { return nil }

func (q *QuizScreen) Title() string { return "Quiz" }

func (q *QuizScreen) SessionView() session.View { return session.ViewQuiz }

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case q.finished:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Collect XP"},
			{Key: "Esc", Description: "Home"},
		}
	case q.choice.Submitted:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "A-D", Description: "Answer"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Home"},
	}
}

func (q *QuizScreen) total() int {
	if q.story == nil {
		return 0
	}
	return len(q.story.Quiz)
}

func (q *QuizScreen) load() {
	item := q.story.Quiz[q.index]
	q.choice = components.NewMultiChoice(item.Question, item.Options, item.CorrectIndex)
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return q, nil
	}

	if kmsg.String() == "esc" {
		q.deps.Session.Back()
		return q, nil
	}

	switch {
	case q.finished:
		if kmsg.String() == "enter" {
			q.submitScore()
		}
	case q.choice.Submitted:
		if kmsg.String() == "enter" {
			q.advance()
		}
	default:
		q.choice, _ = q.choice.Update(kmsg)
		if q.choice.Submitted && q.choice.IsCorrect() {
			q.score++
		}
	}
	return q, nil
}

func (q *QuizScreen) advance() {
	if q.index+1 >= q.total() {
		q.finished = true
		return
	}
	q.index++
	q.load()
}

func (q *QuizScreen) submitScore() {
	if err := q.deps.Session.CompleteQuiz(q.deps.Context(), q.score, q.total()); err != nil {
		q.deps.Logger().Warn("quiz result not saved", "error", err)
		q.saveError = "Your score couldn't be saved. Press Enter to try again."
	}
}

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if q.finished {
		return components.Frame(q.renderResult(cw), width, height)
	}

	header := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", q.index+1, q.total()))
	score := theme.Hint.Render(fmt.Sprintf("score %d", q.score))
	progress := components.NewProgressBar("", float64(q.index)/float64(q.total()), false, cw)

	sections := []string{
		header + "  " + score,
		progress.View(),
		components.Card(q.choice.View(), cw),
	}
	if q.choice.Submitted {
		sections = append(sections, q.renderFeedback(cw))
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (q *QuizScreen) renderFeedback(cw int) string {
	item := q.story.Quiz[q.index]
	var verdict string
	if q.choice.IsCorrect() {
		verdict = theme.Correct.Render("✓ Correct!")
	} else {
		verdict = theme.Incorrect.Render("✗ Not quite.")
	}
	if item.Explanation == "" {
		return verdict
	}
	return verdict + "\n" + theme.Body.Width(cw).Render(item.Explanation)
}

func (q *QuizScreen) renderResult(cw int) string {
	total := q.total()
	title := "Quiz complete!"
	if total > 0 && q.score == total {
		title = "Perfect score!"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(fmt.Sprintf("You got %d of %d right.", q.score, total)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("+%d XP", profile.QuizXP(q.score, total))))
	if q.saveError != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.RenderNotice(q.saveError, cw))
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(b.String())
}
