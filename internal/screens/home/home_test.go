package home

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/screen"
	"github.com/abhisek/gyankosh/internal/screen/screentest"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/voice"
)

func homeForScience(t *testing.T) (*screentest.Env, *HomeScreen) {
	t.Helper()
	env := screentest.NewDeps(t, 2, 1)
	require.True(t, env.Deps.Session.SelectGrade("Class 3"))
	require.True(t, env.Deps.Session.SelectSubject("Science"))
	return env, New(env.Deps)
}

func TestHome_CreateNeedsSubjectAndTopic(t *testing.T) {
	env := screentest.NewDeps(t, 2, 1)
	h := New(env.Deps)

	_, cmd := h.Update(screentest.Key("enter"))
	assert.Nil(t, cmd)
	assert.False(t, env.Deps.Session.State().Loading)

	require.True(t, env.Deps.Session.SelectGrade("Class 3"))
	require.True(t, env.Deps.Session.SelectSubject("Science"))
	env.Deps.Session.EditTopic("   ")
	_, cmd = h.Update(screentest.Key("enter"))
	assert.Nil(t, cmd)
	assert.False(t, env.Deps.Session.State().Loading)
}

func TestHome_SurpriseThenCreate(t *testing.T) {
	env, h := homeForScience(t)

	h.Update(screentest.Key("ctrl+s"))
	topic := env.Deps.Session.State().Topic
	require.NotEmpty(t, topic)
	assert.Equal(t, topic, h.topic.Value())

	_, cmd := h.Update(screentest.Key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, env.Deps.Session.State().Loading)

	// Keys are ignored while the lesson is being written.
	h.Update(screentest.Key("ctrl+p"))
	assert.Equal(t, session.ViewHome, env.Deps.Session.State().View)
	assert.Nil(t, h.KeyHints())
}

func TestHome_SurpriseWithoutSubjectDoesNothing(t *testing.T) {
	env := screentest.NewDeps(t, 2, 1)
	h := New(env.Deps)
	h.Update(screentest.Key("ctrl+s"))
	assert.Empty(t, env.Deps.Session.State().Topic)
	assert.Empty(t, h.topic.Value())
}

func TestHome_VoiceUnsupportedShowsNotice(t *testing.T) {
	env, h := homeForScience(t)
	env.Deps.Voice = voice.Unsupported{}

	_, cmd := h.Update(screentest.Key("ctrl+t"))
	assert.Nil(t, cmd)
	assert.Equal(t, voice.UnsupportedNotice, h.voiceNote)
	assert.Contains(t, h.View(120, 60), voice.UnsupportedNotice)

	h.Update(screentest.Key("esc"))
	assert.Empty(t, h.voiceNote)
	assert.NotContains(t, h.View(120, 60), voice.UnsupportedNotice)
}

func TestHome_TranscriptFillsTopicInput(t *testing.T) {
	env, h := homeForScience(t)
	env.Deps.Session.ApplyTranscript("rainbows")
	h.Update(screen.TranscriptMsg{Text: "rainbows"})
	assert.Equal(t, "rainbows", h.topic.Value())

	h.Update(screen.TranscriptMsg{Err: errors.New("mic busy")})
	assert.Equal(t, noticeMicFailed, h.voiceNote)
	assert.Equal(t, "rainbows", h.topic.Value())
}

func TestHome_Navigation(t *testing.T) {
	tests := []struct {
		key  string
		want session.View
	}{
		{"ctrl+l", session.ViewLibrary},
		{"ctrl+p", session.ViewProfile},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			env := screentest.NewDeps(t, 1, 0)
			New(env.Deps).Update(screentest.Key(tt.key))
			assert.Equal(t, tt.want, env.Deps.Session.State().View)
		})
	}
}
