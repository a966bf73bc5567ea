// Package store persists the whole task collection as one serialized value
// under a single key of a key-value backend.
package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/tasktracker/internal/logging"
	"github.com/tgienger/tasktracker/internal/models"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "task_tracker_data"

var (
	// ErrNoValue is returned by a Backend when the key has never been set.
	ErrNoValue = errors.New("no value for key")
	// ErrPersistence wraps failures to read or write the collection.
	ErrPersistence = errors.New("persistence failure")
)

// Backend is a minimal key-value store. Set must replace the value in a
// single write.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

//go:embed task_schema.json
var taskSchemaJSON string

var taskSchema = jsonschema.MustCompileString("task_schema.json", taskSchemaJSON)

// Store reads and writes the task collection.
type Store struct {
	backend Backend
	key     string
	log     logrus.FieldLogger
}

// New creates a Store over backend. An empty key uses DefaultKey; a nil
// logger discards output.
func New(backend Backend, key string, logger logrus.FieldLogger) *Store {
	if backend == nil {
		panic("store.New: backend is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		backend: backend,
		key:     key,
		log:     logger.WithField("key", key),
	}
}

// Key returns the key the collection lives under.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored collection, or nil when nothing usable is stored.
// Read errors are logged and reported as absent; callers that write back must
// use LoadStrict instead.
func (s *Store) Load(ctx context.Context) []models.Task {
	tasks, err := s.LoadStrict(ctx)
	if err != nil {
		s.log.WithError(err).Warn("read task collection failed, treating as absent")
		return nil
	}
	return tasks
}

// LoadStrict is Load for read-modify-write. A missing key or corrupt data
// yields nil; any other read failure is returned wrapped in ErrPersistence so
// the caller does not overwrite data it could not see.
func (s *Store) LoadStrict(ctx context.Context) ([]models.Task, error) {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, ErrNoValue) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, s.key, err)
	}

	tasks, err := Decode(data)
	if err != nil {
		s.log.WithError(err).Warn("stored task collection is corrupt, treating as absent")
		return nil, nil
	}
	return tasks, nil
}

// Save replaces the stored collection.
func (s *Store) Save(ctx context.Context, tasks []models.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return fmt.Errorf("%w: encode tasks: %v", ErrPersistence, err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, s.key, err)
	}
	s.log.WithField("count", len(tasks)).Debug("saved task collection")
	return nil
}

// Encode serializes tasks as a JSON array. A nil slice encodes as [].
func Encode(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses and schema-checks a serialized collection.
func Decode(data []byte) ([]models.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if err := taskSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("validate schema: %w", err)
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}
