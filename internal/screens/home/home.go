package home

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/ui/components"
	"github.com/abhisek/gyankosh/internal/ui/layout"
	"github.com/abhisek/gyankosh/internal/voice"
)

const spinnerInterval = 100 * time.Millisecond

// Fixed focus rows. Recommendation rows sit between rowTopic and the
// create button.
const (
	rowGrade = iota
	rowSubject
	rowLanguage
	rowTopic
	fixedRows
)

const (
	noticeMicFailed = "I couldn't hear that. Try again?"
	noticeListening = "Listening… say your topic."
)

type spinnerTickMsg time.Time

// HomeScreen collects the lesson request: grade, subject, language and
// topic, plus shortcuts to recommendations, the library and the profile.
type HomeScreen struct {
	deps      *screen.Deps
	topic     components.TextInput
	focus     int
	spin      int
	listening bool
	voiceNote string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.SessionView = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps *screen.Deps) *HomeScreen {
	h := &HomeScreen{
		deps:  deps,
		topic: components.NewTextInput("Topic", "What do you want to learn about?", 120),
		focus: rowSubject,
	}
	h.topic.SetValue(deps.Session.State().Topic)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.deps.Session.State().Loading {
		return spinnerTick()
	}
	return nil
}

func (h *HomeScreen) Title() string { return "Create a Lesson" }

func (h *HomeScreen) SessionView() session.View { return session.ViewHome }

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.deps.Session.State().Loading {
		return nil
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Create"},
		{Key: "Ctrl+S", Description: "Surprise"},
		{Key: "Ctrl+T", Description: "Speak"},
		{Key: "Ctrl+L", Description: "Library"},
		{Key: "Ctrl+P", Description: "Profile"},
	}
	if h.deps.Session.State().Notice != "" || h.voiceNote != "" {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Dismiss"})
	}
	return hints
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// recommendations are a pure function of the library and grade. The
// shuffle is seeded from both so the list is stable between renders.
func (h *HomeScreen) recommendations() []library.Recommendation {
	m := h.deps.Session
	lib := m.Library()
	hash := fnv.New64a()
	hash.Write([]byte(m.State().Grade))
	for i := range lib {
		hash.Write([]byte(lib[i].ID))
	}
	return m.Recommendations(rand.New(rand.NewPCG(hash.Sum64(), uint64(len(lib)))))
}

func (h *HomeScreen) rows() int {
	return fixedRows + len(h.recommendations()) + 1
}

func (h *HomeScreen) createRow() int {
	return h.rows() - 1
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	m := h.deps.Session

	switch msg := msg.(type) {
	case spinnerTickMsg:
		if !m.State().Loading {
			return h, nil
		}
		h.spin++
		return h, spinnerTick()

	case screen.TranscriptMsg:
		h.listening = false
		h.voiceNote = ""
		if msg.Err != nil {
			h.voiceNote = noticeMicFailed
		}
		h.syncTopic()
		return h, nil

	case screen.LessonResultMsg:
		h.syncTopic()
		return h, nil

	case tea.KeyPressMsg:
		if m.State().Loading {
			return h, nil
		}
		return h.handleKey(msg)
	}

	if h.focus == rowTopic {
		return h, h.updateTopic(msg)
	}
	return h, nil
}

func (h *HomeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	m := h.deps.Session

	switch msg.String() {
	case "up", "shift+tab":
		return h, h.moveFocus(-1)
	case "down", "tab":
		return h, h.moveFocus(1)
	case "left":
		h.cycle(-1)
		return h, nil
	case "right":
		h.cycle(1)
		return h, nil
	case "esc":
		m.DismissNotice()
		h.voiceNote = ""
		return h, nil
	case "ctrl+s":
		if m.SurpriseTopic(h.rng()) {
			h.syncTopic()
		}
		return h, nil
	case "ctrl+t":
		return h, h.listen()
	case "ctrl+l":
		m.Navigate(session.ViewLibrary)
		return h, nil
	case "ctrl+p":
		m.Navigate(session.ViewProfile)
		return h, nil
	case "enter":
		if recs := h.recommendations(); h.focus >= fixedRows && h.focus < fixedRows+len(recs) {
			m.PickRecommendation(recs[h.focus-fixedRows])
			h.syncTopic()
			return h, h.setFocus(h.createRow())
		}
		return h, h.create()
	}

	if h.focus == rowTopic {
		return h, h.updateTopic(msg)
	}
	return h, nil
}

func (h *HomeScreen) rng() *rand.Rand {
	if h.deps.Rand != nil {
		return h.deps.Rand
	}
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
}

func (h *HomeScreen) create() tea.Cmd {
	cmd := screen.CreateLesson(h.deps)
	if cmd == nil {
		return nil
	}
	h.spin = 0
	h.voiceNote = ""
	return tea.Batch(cmd, spinnerTick())
}

func (h *HomeScreen) listen() tea.Cmd {
	if h.listening {
		return nil
	}
	cmd := screen.Listen(h.deps)
	if cmd == nil {
		h.voiceNote = voice.UnsupportedNotice
		return nil
	}
	h.listening = true
	h.voiceNote = noticeListening
	return cmd
}

func (h *HomeScreen) updateTopic(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.topic, cmd = h.topic.Update(msg)
	if h.topic.Value() != h.deps.Session.State().Topic {
		h.deps.Session.EditTopic(h.topic.Value())
	}
	return cmd
}

func (h *HomeScreen) syncTopic() {
	if t := h.deps.Session.State().Topic; t != h.topic.Value() {
		h.topic.SetValue(t)
		h.topic.Model.CursorEnd()
	}
}

func (h *HomeScreen) moveFocus(delta int) tea.Cmd {
	n := h.rows()
	return h.setFocus(((h.focus+delta)%n + n) % n)
}

func (h *HomeScreen) setFocus(row int) tea.Cmd {
	h.focus = row
	if row == rowTopic {
		return h.topic.Focus()
	}
	h.topic.Blur()
	return nil
}

func (h *HomeScreen) cycle(delta int) {
	m := h.deps.Session
	st := m.State()
	cat := m.Catalog()

	pick := func(options []string, current string) string {
		sel := components.NewSelector("", options, current)
		if delta < 0 {
			return sel.Prev()
		}
		return sel.Next()
	}

	switch h.focus {
	case rowGrade:
		m.SelectGrade(pick(cat.Grades(), st.Grade))
		h.syncTopic()
	case rowSubject:
		m.SelectSubject(pick(cat.SubjectsFor(st.Grade), st.Subject))
		h.syncTopic()
	case rowLanguage:
		names := make([]string, 0, len(cat.Languages()))
		for _, l := range cat.Languages() {
			names = append(names, l.Name)
		}
		m.SelectLanguage(pick(names, st.Language))
	default:
		if h.focus == rowTopic {
			h.topic, _ = h.topic.Update(keyFor(delta))
		}
	}
}

func keyFor(delta int) tea.KeyPressMsg {
	if delta < 0 {
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	}
	return tea.KeyPressMsg{Code: tea.KeyRight}
}
