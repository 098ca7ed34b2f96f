package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"model", "gemini", "api_key", "sk-123", "dangling"})
	assert.Equal(t, []any{"model", "gemini", "api_key", "[REDACTED]", "dangling"}, got)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gyankosh.log")
	log, err := New("prod", path)
	require.NoError(t, err)

	log.With("component", "test").Info("hello", "token", "abc")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "hello"))
	assert.False(t, strings.Contains(string(data), "abc"))
}

func TestNewWithoutPathIsSilent(t *testing.T) {
	log, err := New("dev", "")
	require.NoError(t, err)
	log.Info("dropped")
}
