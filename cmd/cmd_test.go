package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/store"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return rootCmd.ExecuteContext(context.Background())
}

func TestGreeting(t *testing.T) {
	tests := []struct {
		name string
		p    profile.UserProfile
		want string
	}{
		{"first run", profile.UserProfile{Name: "Student", StreakDays: 1}, ""},
		{"returning", profile.UserProfile{Name: "Asha", StreakDays: 1, StoriesRead: 2}, "Welcome back, Asha!"},
		{"streak", profile.UserProfile{Name: "Asha", StreakDays: 4, StoriesRead: 2}, "4-day streak! Keep it going."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, greeting(tt.p))
		})
	}
}

func TestDescribeActivity(t *testing.T) {
	ev := store.ActivityEvent{ActivityEventData: store.ActivityEventData{
		Kind: store.ActivityQuizCompleted, Title: "Water", Score: 4, Total: 5, XPDelta: 40,
	}}
	assert.Equal(t, `Quiz on "Water": 4/5 (+40 XP)`, describeActivity(ev))
}

func TestResetErasesProgress(t *testing.T) {
	db := filepath.Join(t.TempDir(), "gyankosh.db")

	require.NoError(t, execute(t, "--db", db, "profile"))
	require.NoError(t, execute(t, "--db", db, "reset", "--yes"))

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	_, err = st.DocumentRepo().Get(context.Background(), store.KeyProfile)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCreateReportsGenerationFailure(t *testing.T) {
	t.Setenv("GYANKOSH_LLM_PROVIDER", "mock")
	db := filepath.Join(t.TempDir(), "gyankosh.db")

	err := execute(t, "--db", db, "create", "--grade", "Class 3", "--subject", "Science", "--topic", "Water")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be written")
}

func TestCreateRejectsUnknownSubject(t *testing.T) {
	t.Setenv("GYANKOSH_LLM_PROVIDER", "mock")
	db := filepath.Join(t.TempDir(), "gyankosh.db")

	err := execute(t, "--db", db, "create", "--grade", "Class 1", "--subject", "Astrology", "--topic", "Stars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not offer")
}
