package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/tasktracker/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	value, err := database.GetSetting("view_sort")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, database.SetSetting("view_sort", "TITLE"))
	require.NoError(t, database.SetSetting("view_sort", "PRIORITY"))

	value, err = database.GetSetting("view_sort")
	require.NoError(t, err)
	assert.Equal(t, "PRIORITY", value)
}

func TestBackendGetSet(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	_, err := database.Get(ctx, "task_tracker_data")
	require.ErrorIs(t, err, store.ErrNoValue)

	require.NoError(t, database.Set(ctx, "task_tracker_data", []byte(`[]`)))
	got, err := database.Get(ctx, "task_tracker_data")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestStoreOverSQLite(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()
	s := store.New(database, store.DefaultKey, nil)

	assert.Nil(t, s.Load(ctx))

	require.NoError(t, database.Set(ctx, store.DefaultKey, []byte(`{not json`)))
	assert.Nil(t, s.Load(ctx), "corrupt data reads as absent")
}

func TestDefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tasktracker", "tasktracker.db"), path)
}
