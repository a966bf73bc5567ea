package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("writes json lines to the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")

		logger, closer, err := New(Options{Path: path, Level: "debug"})
		require.NoError(t, err)
		Component(logger, "service").WithField("id", "t1").Debug("created task")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		line := strings.TrimSpace(string(data))

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "created task", entry["msg"])
		assert.Equal(t, "service", entry["component"])
		assert.Equal(t, "t1", entry["id"])
	})

	t.Run("level filters output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		logger, closer, err := New(Options{Path: path, Level: "warn"})
		require.NoError(t, err)
		logger.Info("hidden")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, _, err := New(Options{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
		require.Error(t, err)
	})
}

func TestDefaultPathUsesXDGState(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasktracker", "tasktracker.log"), path)
}

func TestComponentNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		Component(nil, "ui").Info("dropped")
	})
}
