// Package service is the only writer of the task store. It behaves like a
// remote API: every call waits a fixed latency before touching storage.
package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/tasktracker/internal/logging"
	"github.com/tgienger/tasktracker/internal/models"
	"github.com/tgienger/tasktracker/internal/store"
)

// DefaultLatency is the simulated round trip of each call.
const DefaultLatency = 600 * time.Millisecond

// TaskService implements CRUD over a store.Store.
type TaskService struct {
	store   *store.Store
	latency time.Duration
	now     func() time.Time
	newID   func() string
	log     logrus.FieldLogger

	// mu serializes read-modify-write against the store; the latency wait
	// happens outside it so calls still overlap.
	mu sync.Mutex
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithLatency sets the simulated latency. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(s *TaskService) {
		s.latency = d
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *TaskService) {
		s.newID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *TaskService) {
		s.log = logging.Component(logger, "service")
	}
}

// New creates a TaskService over st.
func New(st *store.Store, opts ...Option) *TaskService {
	s := &TaskService{
		store:   st,
		latency: DefaultLatency,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     logging.Component(nil, "service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchAll returns every stored task, seeding the sample tasks when the store
// is empty.
func (s *TaskService) FetchAll(ctx context.Context) ([]models.Task, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.LoadStrict(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	if len(tasks) > 0 {
		return tasks, nil
	}

	tasks = sampleTasks(s.now(), s.newID)
	if err := s.store.Save(ctx, tasks); err != nil {
		return nil, fmt.Errorf("seed tasks: %w", err)
	}
	s.log.WithField("count", len(tasks)).Info("seeded empty store with sample tasks")
	return tasks, nil
}

// Create stores a new task built from data and returns it with its id and
// creation time set.
func (s *TaskService) Create(ctx context.Context, data models.FormData) (models.Task, error) {
	if err := s.wait(ctx); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:          s.newID(),
		Title:       data.Title,
		Description: data.Description,
		DueDate:     data.DueDate,
		Status:      data.Status,
		Priority:    data.Priority,
		CreatedAt:   s.now(),
	}

	tasks, err := s.store.LoadStrict(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	if err := s.store.Save(ctx, append([]models.Task{task}, tasks...)); err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.log.WithField("id", task.ID).Debug("created task")
	return task, nil
}

// Update merges patch into the task with the given id.
func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if err := s.wait(ctx); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.LoadStrict(ctx)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
	if idx == -1 {
		return models.Task{}, fmt.Errorf("update %s: %w", id, ErrTaskNotFound)
	}

	updated := patch.Apply(tasks[idx])
	tasks[idx] = updated
	if err := s.store.Save(ctx, tasks); err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.log.WithField("id", id).Debug("updated task")
	return updated, nil
}

// Delete removes the task with the given id. Unknown ids are not an error.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.store.LoadStrict(ctx)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	remaining := slices.DeleteFunc(tasks, func(t models.Task) bool { return t.ID == id })
	if err := s.store.Save(ctx, remaining); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.log.WithField("id", id).Debug("deleted task")
	return nil
}

// wait blocks for the configured latency.
func (s *TaskService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
