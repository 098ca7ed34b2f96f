package app

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/playback"
	"github.com/abhisek/gyankosh/internal/router"
	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/screen/screentest"
	"github.com/abhisek/gyankosh/internal/session"
)

func newTestApp(t *testing.T) (AppModel, *screentest.Env) {
	t.Helper()
	env := screentest.NewDeps(t, 3, 2)
	m := newAppModel(context.Background(), Options{
		Session:  env.Deps.Session,
		Tutor:    screentest.Tutor{},
		LLMReady: true,
	})
	// Skip the welcome screen.
	m.router.Replace(screenFor(session.ViewHome, m.deps))
	return m, env
}

func update(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(AppModel)
}

func activeView(m AppModel) session.View {
	if sv, ok := m.router.Active().(screen.SessionView); ok {
		return sv.SessionView()
	}
	return ""
}

func TestLessonResultSwitchesToLesson(t *testing.T) {
	m, env := newTestApp(t)
	sess := env.Deps.Session
	require.True(t, sess.SelectGrade("Class 3"))
	require.True(t, sess.SelectSubject("Science"))
	sess.EditTopic("Water")

	ticket, req, ok := sess.BeginCreate()
	require.True(t, ok)

	m = update(t, m, screen.LessonResultMsg{Ticket: ticket, Request: req, Story: screentest.Story(3, 2)})

	assert.False(t, sess.State().Loading)
	assert.Equal(t, session.ViewLesson, sess.State().View)
	assert.Equal(t, session.ViewLesson, activeView(m))
	assert.Len(t, sess.Library(), 1)
}

func TestLessonResultFailureStaysHome(t *testing.T) {
	m, env := newTestApp(t)
	sess := env.Deps.Session
	require.True(t, sess.SelectGrade("Class 3"))
	require.True(t, sess.SelectSubject("Science"))
	sess.EditTopic("Water")
	ticket, req, ok := sess.BeginCreate()
	require.True(t, ok)

	m = update(t, m, screen.LessonResultMsg{Ticket: ticket, Request: req, Err: errors.New("boom")})

	assert.Equal(t, session.ViewHome, activeView(m))
	assert.Equal(t, session.NoticeGenerationFailed, sess.State().Notice)
	assert.Empty(t, sess.Library())
}

func TestTranscriptFillsTopic(t *testing.T) {
	m, env := newTestApp(t)
	update(t, m, screen.TranscriptMsg{Text: "  volcanoes "})
	assert.Equal(t, "volcanoes", env.Deps.Session.State().Topic)

	update(t, m, screen.TranscriptMsg{Err: errors.New("mic busy")})
	assert.Equal(t, "volcanoes", env.Deps.Session.State().Topic)
}

func TestPrefetchedIllustrationsAreSaved(t *testing.T) {
	m, env := newTestApp(t)
	story := env.CreateLesson(t)

	update(t, m, screen.PrefetchedMsg{
		StoryID: story.ID,
		Fetched: []playback.Fetched{
			{StoryID: story.ID, Page: 0, Image: &library.Illustration{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
			{StoryID: story.ID, Page: 1, Image: &library.Illustration{MIMEType: "image/png", Data: []byte{4}, Placeholder: true}},
		},
	})

	saved, ok := env.Deps.Session.Library().Find(story.ID)
	require.True(t, ok)
	require.NotNil(t, saved.Pages[0].Illustration)
	assert.Equal(t, []byte{1, 2, 3}, saved.Pages[0].Illustration.Data)
	assert.Nil(t, saved.Pages[1].Illustration)
}

func TestSyncFollowsNavigation(t *testing.T) {
	m, env := newTestApp(t)
	require.True(t, env.Deps.Session.Navigate(session.ViewProfile))

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, router.PopScreenMsg{})
	assert.Equal(t, session.ViewProfile, activeView(m))

	m = update(t, m, tea.KeyPressMsg{Code: 'l', Text: "l"})
	assert.Equal(t, session.ViewLibrary, activeView(m))
}

func TestWelcomeHandsOverToHome(t *testing.T) {
	env := screentest.NewDeps(t, 1, 0)
	m := newAppModel(context.Background(), Options{Session: env.Deps.Session})
	_, ok := m.router.Active().(screen.SessionView)
	require.False(t, ok)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	require.NotNil(t, cmd)
	m = update(t, m, router.ReplaceScreenMsg{Screen: screenFor(session.ViewHome, m.deps)})
	assert.Equal(t, session.ViewHome, activeView(m))
}

func TestViewUsesAltScreen(t *testing.T) {
	m, _ := newTestApp(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.True(t, m.View().AltScreen)
}
