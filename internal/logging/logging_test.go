package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "astrodeck.log")

	result := New(Config{Level: "debug", File: path})
	t.Cleanup(func() { _ = result.Close() })
	require.True(t, result.UsingFile)
	assert.Equal(t, path, result.FilePath)

	logger := Component(result.Logger, "poller")
	logger.Debug().Int("attempt", 2).Msg("poll ok")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"poller"`)
	assert.Contains(t, string(data), `"message":"poll ok"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astrodeck.log")
	result := New(Config{Level: "warn", File: path})

	result.Logger.Info().Msg("hidden")
	result.Logger.Warn().Msg("shown")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_FallsBackToConsole(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	var console bytes.Buffer
	result := New(Config{File: filepath.Join(blocker, "astrodeck.log"), Console: &console})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)

	result.Logger.Info().Msg("still logging")
	assert.Contains(t, console.String(), "still logging")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
}

func TestResultClose_NilSafe(t *testing.T) {
	var r *Result
	assert.NoError(t, r.Close())
	assert.NoError(t, New(Config{}).Close())
}
