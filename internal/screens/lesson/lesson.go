// Package lesson renders lesson playback: cover, pages, narration and the
// reading tutor.
package lesson

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/playback"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/layout"
)

const (
	noteNoNarration = "Narration isn't available for this page."
	noteNarrating   = "Getting the narration ready…"
	noteNoPicture   = "There's no picture to save on this page yet."
)

// tutorMsg carries an explanation or an answer for a page.
type tutorMsg struct {
	page     int
	question string
	text     string
}

// playbackDoneMsg is sent when a narration buffer finishes.
type playbackDoneMsg struct {
	page int
}

// LessonScreen plays the active lesson page by page.
type LessonScreen struct {
	deps   *screen.Deps
	story  *library.Story
	cursor playback.Cursor

	deepDive    bool
	asking      bool
	question    components.TextInput
	tutorBusy   bool
	tutorPage   int
	tutorAsk    string
	tutorText   string
	pendingPlay int // page waiting for narration, or noPending
	playingPage int // page being narrated, or noPending
	note        string
}

const noPending = -2

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.SessionView = (*LessonScreen)(nil)

// New creates the playback screen for the session's active lesson.
func New(deps *screen.Deps) *LessonScreen {
	story := deps.Session.State().Active
	pages := 0
	if story != nil {
		pages = len(story.Pages)
	}
	return &LessonScreen{
		deps:        deps,
		story:       story,
		cursor:      playback.NewCursor(pages),
		question:    components.NewTextInput("Ask", "Type a question about this page", 200),
		pendingPlay: noPending,
		playingPage: noPending,
	}
}

func (l *LessonScreen) Init() tea.Cmd {
	if l.story == nil {
		return nil
	}
	if p := l.deps.Prefetcher; p != nil {
		p.SetStory(l.story)
		if p.Voice() == "" {
			p.SetVoice(content.DefaultVoice(l.deps.Session.Catalog().IsHighSchool(l.story.Grade)))
		}
	}
	return l.prefetch()
}

func (l *LessonScreen) Title() string {
	if l.story == nil {
		return "Lesson"
	}
	return l.story.Title
}

func (l *LessonScreen) SessionView() session.View { return session.ViewLesson }

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	if l.asking {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Ask"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	next := "Next"
	if l.cursor.AtEnd() {
		next = "Finish"
		if l.story != nil && l.story.HasQuiz() {
			next = "Quiz"
		}
	}
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Page"},
		{Key: "Enter", Description: next},
		{Key: "R", Description: "Read aloud"},
		{Key: "V", Description: "Voice"},
		{Key: "E", Description: "Explain"},
		{Key: "?", Description: "Ask"},
	}
	if !l.cursor.IsCover() {
		hints = append(hints, layout.KeyHint{Key: "D", Description: "Deep dive"}, layout.KeyHint{Key: "X", Description: "Save picture"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.PrefetchedMsg:
		if l.pendingPlay != noPending {
			return l, l.playPending()
		}
		return l, nil

	case tutorMsg:
		if msg.page != l.cursor.Index() {
			return l, nil
		}
		l.tutorBusy = false
		l.tutorPage = msg.page
		l.tutorAsk = msg.question
		l.tutorText = msg.text
		return l, nil

	case playbackDoneMsg:
		if msg.page == l.playingPage {
			l.playingPage = noPending
		}
		return l, nil

	case tea.KeyPressMsg:
		if l.asking {
			return l, l.handleAskKey(msg)
		}
		return l.handleKey(msg)
	}

	if l.asking {
		var cmd tea.Cmd
		l.question, cmd = l.question.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if l.story == nil {
		l.deps.Session.Back()
		return l, nil
	}

	switch msg.String() {
	case "right", "l", "space", "n":
		if l.cursor.Next() {
			return l, l.turned()
		}
	case "left", "h", "p":
		if l.cursor.Prev() {
			return l, l.turned()
		}
	case "enter":
		if !l.cursor.AtEnd() {
			l.cursor.Next()
			return l, l.turned()
		}
		l.stopAudio()
		l.deps.Session.FinishLesson()
	case "esc":
		l.stopAudio()
		l.deps.Session.Back()
	case "r":
		return l, l.readAloud()
	case "s":
		l.stopAudio()
	case "v":
		return l, l.nextVoice()
	case "d":
		l.deepDive = !l.deepDive
	case "e":
		return l, l.explain()
	case "?":
		l.asking = true
		l.question.SetValue("")
		return l, l.question.Focus()
	case "x":
		l.exportPicture()
	}
	return l, nil
}

func (l *LessonScreen) handleAskKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		l.asking = false
		l.question.Blur()
		return nil
	case "enter":
		if l.question.Blank() {
			return nil
		}
		l.asking = false
		l.question.Blur()
		return l.ask(strings.TrimSpace(l.question.Value()))
	}
	var cmd tea.Cmd
	l.question, cmd = l.question.Update(msg)
	return cmd
}

// turned resets per-page state and prefetches around the new page.
func (l *LessonScreen) turned() tea.Cmd {
	l.stopAudio()
	l.deepDive = false
	l.note = ""
	l.tutorBusy = false
	l.tutorText = ""
	l.tutorAsk = ""
	return l.prefetch()
}

func (l *LessonScreen) prefetch() tea.Cmd {
	return screen.Prefetch(l.deps, l.story, l.cursor.Window())
}

func (l *LessonScreen) stopAudio() {
	l.pendingPlay = noPending
	l.playingPage = noPending
	if l.deps.Player != nil {
		l.deps.Player.Stop()
	}
}

func (l *LessonScreen) readAloud() tea.Cmd {
	if l.deps.Player == nil || l.deps.Prefetcher == nil {
		l.note = noteNoNarration
		return nil
	}
	l.pendingPlay = l.cursor.Index()
	if cmd := l.playPending(); cmd != nil || l.pendingPlay == noPending {
		return cmd
	}
	l.note = noteNarrating
	return screen.Prefetch(l.deps, l.story, []int{l.cursor.Index()})
}

// playPending starts the narration the learner asked for once it is cached.
func (l *LessonScreen) playPending() tea.Cmd {
	page := l.pendingPlay
	if page != l.cursor.Index() {
		l.pendingPlay = noPending
		return nil
	}
	pcm, ok := l.deps.Prefetcher.Narration(page)
	if !ok {
		return nil
	}
	l.pendingPlay = noPending
	if len(pcm) == 0 {
		l.note = noteNoNarration
		return nil
	}
	done, err := l.deps.Player.Play(pcm)
	if err != nil {
		l.note = noteNoNarration
		return nil
	}
	l.note = ""
	l.playingPage = page
	return func() tea.Msg {
		<-done
		return playbackDoneMsg{page: page}
	}
}

func (l *LessonScreen) nextVoice() tea.Cmd {
	p := l.deps.Prefetcher
	if p == nil {
		return nil
	}
	l.stopAudio()
	next := content.Voices[(content.VoiceIndex(p.Voice())+1)%len(content.Voices)]
	p.SetVoice(next.Name)
	l.note = fmt.Sprintf("Voice: %s (%s)", next.Name, next.Label)
	return l.prefetch()
}

func (l *LessonScreen) pageText() string {
	return playback.NarrationText(l.story, l.cursor.Index())
}

func (l *LessonScreen) explain() tea.Cmd {
	if l.deps.Tutor == nil || l.tutorBusy {
		return nil
	}
	l.tutorBusy = true
	l.tutorAsk = ""
	page, text, lang := l.cursor.Index(), l.pageText(), l.story.Language
	tutor, ctx := l.deps.Tutor, l.deps.Context()
	return func() tea.Msg {
		return tutorMsg{page: page, text: tutor.GenerateExplanation(ctx, text, lang)}
	}
}

func (l *LessonScreen) ask(question string) tea.Cmd {
	if l.deps.Tutor == nil || l.tutorBusy {
		return nil
	}
	l.tutorBusy = true
	l.tutorAsk = question
	page, passage, lang := l.cursor.Index(), l.pageText(), l.story.Language
	tutor, ctx := l.deps.Tutor, l.deps.Context()
	return func() tea.Msg {
		return tutorMsg{page: page, question: question, text: tutor.AnswerQuestion(ctx, passage, question, lang)}
	}
}

func (l *LessonScreen) illustration() (*library.Illustration, bool) {
	if l.deps.Prefetcher == nil {
		return nil, false
	}
	return l.deps.Prefetcher.Illustration(l.cursor.Index())
}

func (l *LessonScreen) exportPicture() {
	img, ok := l.illustration()
	if !ok || img == nil || img.Placeholder || len(img.Data) == 0 {
		l.note = noteNoPicture
		return
	}
	dir := l.deps.ExportDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "gyankosh")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		l.note = "Couldn't save the picture."
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-page-%d%s", l.story.ID, l.cursor.Index()+1, extension(img.MIMEType)))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		l.deps.Logger().Warn("saving illustration failed", "path", path, "error", err)
		l.note = "Couldn't save the picture."
		return
	}
	l.note = "Saved picture to " + path
}

func extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ".png"
}
