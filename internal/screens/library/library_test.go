package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/screen/screentest"
	"github.com/abhisek/gyankosh/internal/session"
)

func libraryWithLessons(t *testing.T, n int) (*screentest.Env, *LibraryScreen) {
	t.Helper()
	env := screentest.NewDeps(t, 2, 1)
	for range n {
		env.CreateLesson(t)
		env.Deps.Session.Back()
	}
	require.True(t, env.Deps.Session.Navigate(session.ViewLibrary))
	return env, New(env.Deps)
}

func TestLibrary_Empty(t *testing.T) {
	env := screentest.NewDeps(t, 1, 0)
	s := New(env.Deps)
	assert.Contains(t, s.View(100, 40), "Your library is empty.")

	// Keys on an empty list do nothing.
	s.Update(screentest.Key("enter"))
	s.Update(screentest.Key("d"))
	assert.False(t, s.confirming)
}

func TestLibrary_OpenSaved(t *testing.T) {
	env, s := libraryWithLessons(t, 2)
	assert.Contains(t, s.View(100, 40), "2 saved lessons")

	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("enter"))

	st := env.Deps.Session.State()
	assert.Equal(t, session.ViewLesson, st.View)
	require.NotNil(t, st.Active)
	assert.Equal(t, env.Deps.Session.Library()[1].ID, st.Active.ID)
}

func TestLibrary_DeleteNeedsConfirmation(t *testing.T) {
	env, s := libraryWithLessons(t, 2)
	first := env.Deps.Session.Library()[0].ID

	s.Update(screentest.Key("d"))
	require.True(t, s.confirming)
	assert.Contains(t, s.View(100, 40), "(y/n)")

	s.Update(screentest.Key("n"))
	assert.Len(t, env.Deps.Session.Library(), 2)

	s.Update(screentest.Key("d"))
	s.Update(screentest.Key("y"))
	lib := env.Deps.Session.Library()
	require.Len(t, lib, 1)
	assert.NotEqual(t, first, lib[0].ID)
	assert.Equal(t, session.ViewLibrary, env.Deps.Session.State().View)
}

func TestLibrary_DeleteLastClampsCursor(t *testing.T) {
	env, s := libraryWithLessons(t, 2)
	s.Update(screentest.Key("down"))
	s.Update(screentest.Key("d"))
	s.Update(screentest.Key("y"))

	assert.Len(t, env.Deps.Session.Library(), 1)
	assert.Equal(t, 0, s.cursor)
}

func TestLibrary_EscGoesHome(t *testing.T) {
	env, s := libraryWithLessons(t, 1)
	s.Update(screentest.Key("esc"))
	assert.Equal(t, session.ViewHome, env.Deps.Session.State().View)
}
