package store

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/tasktracker/internal/models"
)

type failingBackend struct {
	getErr error
	setErr error
}

func (f failingBackend) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f failingBackend) Set(context.Context, string, []byte) error   { return f.setErr }

func sampleTasks() []models.Task {
	return []models.Task{
		{
			ID:          "b",
			Title:       "Review PR #45",
			Description: "auth flow",
			DueDate:     models.NewDate(2024, time.January, 9),
			Status:      models.StatusPending,
			Priority:    models.PriorityMedium,
			CreatedAt:   time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "a",
			Title:     "Update docs",
			DueDate:   models.NewDate(2024, time.January, 15),
			Status:    models.StatusDone,
			Priority:  models.PriorityLow,
			CreatedAt: time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryBackend(), "", nil)
	assert.Equal(t, DefaultKey, s.Key())

	assert.Nil(t, s.Load(ctx), "first run is absent")

	require.NoError(t, s.Save(ctx, sampleTasks()))
	got := s.Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID, "order is preserved")
	assert.Equal(t, "2024-01-09", got[0].DueDate.String())
	assert.True(t, got[0].CreatedAt.Equal(sampleTasks()[0].CreatedAt))
}

func TestStoreSaveEmptyEncodesArray(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	s := New(backend, "k", nil)

	require.NoError(t, s.Save(ctx, nil))
	raw, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
	assert.Empty(t, s.Load(ctx))
}

func TestStoreLoadTreatsBadDataAsAbsent(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `[{"id":`},
		{name: "not an array", data: `{"id":"1"}`},
		{name: "unknown status", data: `[{"id":"1","title":"x","description":"","dueDate":"2024-01-01","status":"LATER","createdAt":"2024-01-01T00:00:00Z","priority":"LOW"}]`},
		{name: "missing field", data: `[{"id":"1","title":"x"}]`},
		{name: "bad due date", data: `[{"id":"1","title":"x","description":"","dueDate":"soon","status":"DONE","createdAt":"2024-01-01T00:00:00Z","priority":"LOW"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			backend := NewMemoryBackend()
			require.NoError(t, backend.Set(ctx, DefaultKey, []byte(tt.data)))
			assert.Nil(t, New(backend, "", nil).Load(ctx))
		})
	}
}

func TestStoreLoadAcceptsDatetimeDueDates(t *testing.T) {
	data := `[{"id":"1","title":"Complete Project Proposal","description":"","dueDate":"2024-01-12T08:15:00.000Z","status":"PENDING","createdAt":"2024-01-10T08:15:00.000Z","priority":"HIGH"}]`
	tasks, err := Decode([]byte(data))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2024-01-12", tasks[0].DueDate.String())
}

func TestStoreReadFailureIsAbsent(t *testing.T) {
	s := New(failingBackend{getErr: errors.New("disk gone")}, "", nil)
	assert.Nil(t, s.Load(context.Background()))
}

func TestStoreLoadStrict(t *testing.T) {
	ctx := context.Background()

	tasks, err := New(NewMemoryBackend(), "", nil).LoadStrict(ctx)
	require.NoError(t, err, "missing key is empty")
	assert.Nil(t, tasks)

	corrupt := NewMemoryBackend()
	require.NoError(t, corrupt.Set(ctx, DefaultKey, []byte("{not json")))
	tasks, err = New(corrupt, "", nil).LoadStrict(ctx)
	require.NoError(t, err, "corrupt data is empty")
	assert.Nil(t, tasks)

	tasks, err = New(failingBackend{getErr: errors.New("disk gone")}, "", nil).LoadStrict(ctx)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Nil(t, tasks)
}

func TestStoreWriteFailureIsPersistenceError(t *testing.T) {
	s := New(failingBackend{setErr: errors.New("read-only")}, "", nil)
	err := s.Save(context.Background(), sampleTasks())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestRedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisBackend(client)
	t.Cleanup(func() { _ = backend.Close() })

	ctx := context.Background()
	_, err = backend.Get(ctx, DefaultKey)
	require.ErrorIs(t, err, ErrNoValue)

	s := New(backend, "", nil)
	require.NoError(t, s.Save(ctx, sampleTasks()))
	assert.Len(t, s.Load(ctx), 2)

	raw, err := mr.Get(DefaultKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"Review PR #45"`)

	value, err := backend.GetSetting("view_filter")
	require.NoError(t, err)
	assert.Empty(t, value)
	require.NoError(t, backend.SetSetting("view_filter", "DONE"))
	value, err = backend.GetSetting("view_filter")
	require.NoError(t, err)
	assert.Equal(t, "DONE", value)
}

func TestDialRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	backend, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = DialRedis(context.Background(), "not a url")
	require.Error(t, err)
}

func TestMemoryBackendSettings(t *testing.T) {
	m := NewMemoryBackend()
	v, err := m.GetSetting("view_sort")
	require.NoError(t, err)
	assert.Empty(t, v)
	require.NoError(t, m.SetSetting("view_sort", "TITLE"))
	v, err = m.GetSetting("view_sort")
	require.NoError(t, err)
	assert.Equal(t, "TITLE", v)
}
