// Package app hosts the root Bubble Tea model and keeps the visible screen
// in step with the session state machine.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gyankosh/internal/audio"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/playback"
	"github.com/abhisek/gyankosh/internal/router"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/screens/home"
	"github.com/abhisek/gyankosh/internal/screens/lesson"
	librarys "github.com/abhisek/gyankosh/internal/screens/library"
	profiles "github.com/abhisek/gyankosh/internal/screens/profile"
	"github.com/abhisek/gyankosh/internal/screens/quiz"
	"github.com/abhisek/gyankosh/internal/screens/welcome"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/ui/layout"
	"github.com/abhisek/gyankosh/internal/voice"
)

// Options holds dependencies for the TUI. Only Session is required.
type Options struct {
	Session    *session.Machine
	Tutor      screen.Tutor
	Prefetcher *playback.Prefetcher
	Player     *audio.Player
	Voice      voice.Capability
	Logger     *logger.Logger

	// LLMReady is false when lessons cannot be generated.
	LLMReady bool

	// ExportDir receives saved illustrations.
	ExportDir string

	// Greeting is shown on the welcome screen, e.g. the current streak.
	Greeting string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   *screen.Deps
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the welcome screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	if opts.Voice == nil {
		opts.Voice = voice.Unsupported{}
	}
	deps := &screen.Deps{
		Ctx:        ctx,
		Session:    opts.Session,
		Tutor:      opts.Tutor,
		Prefetcher: opts.Prefetcher,
		Player:     opts.Player,
		Voice:      opts.Voice,
		Rand:       rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		Log:        opts.Logger,
		LLMReady:   opts.LLMReady,
		ExportDir:  opts.ExportDir,
	}
	start := welcome.New(func() screen.Screen { return home.New(deps) }, opts.Greeting)
	return AppModel{
		router: router.New(start),
		deps:   deps,
	}
}

// screenFor builds the screen that renders v.
func screenFor(v session.View, deps *screen.Deps) screen.Screen {
	switch v {
	case session.ViewLesson:
		return lesson.New(deps)
	case session.ViewQuiz:
		return quiz.New(deps)
	case session.ViewLibrary:
		return librarys.New(deps)
	case session.ViewProfile:
		return profiles.New(deps)
	default:
		return home.New(deps)
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	ctx := m.deps.Context()
	sess := m.deps.Session

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			if m.deps.Player != nil {
				m.deps.Player.Stop()
			}
			return m, tea.Quit
		}

	// Session events are applied here so they land even if the screen that
	// started them is gone.
	case screen.LessonResultMsg:
		sess.CompleteCreate(ctx, msg.Ticket, msg.Request, msg.Story, msg.Err)

	case screen.TranscriptMsg:
		if msg.Err != nil {
			m.deps.Logger().Warn("voice capture failed", "error", msg.Err)
		} else {
			sess.ApplyTranscript(msg.Text)
		}

	case screen.PrefetchedMsg:
		if msg.Err != nil {
			m.deps.Logger().Debug("prefetch incomplete", "story", msg.StoryID, "error", msg.Err)
		}
		for _, f := range msg.Fetched {
			sess.AttachIllustration(ctx, f.StoryID, f.Page, f.Image)
		}
	}

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, m.sync())
}

// sync replaces the active screen when the session has moved to another
// view. The welcome screen is left alone until it hands over.
func (m AppModel) sync() tea.Cmd {
	sv, ok := m.router.Active().(screen.SessionView)
	if !ok {
		return nil
	}
	want := m.deps.Session.State().View
	if sv.SessionView() == want {
		return nil
	}
	if want != session.ViewLesson && m.deps.Player != nil {
		m.deps.Player.Stop()
	}
	return m.router.Replace(screenFor(want, m.deps))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	p := m.deps.Session.Profile()
	header := layout.RenderHeader(title, layout.HeaderStats{XP: p.XP, Level: p.Level, Streak: p.StreakDays}, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Player != nil {
		defer opts.Player.Close()
	}
	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
