// Package controller keeps the in-memory task collection shown by the UI in
// step with the task service.
//
// Service calls run as tea.Cmds off the UI goroutine. Their results come back
// as messages and are applied by Handle in the order they arrive, which may
// differ from the order the calls were made.
package controller

import (
	"context"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/tasktracker/internal/logging"
	"github.com/tgienger/tasktracker/internal/models"
)

// User-facing failure notices.
const (
	NoticeLoadFailed   = "Failed to load tasks."
	NoticeCreateFailed = "Failed to add task. Please check your API."
	NoticeUpdateFailed = "Failed to update task."
	NoticeDeleteFailed = "Failed to delete task."
	NoticeToggleFailed = "Failed to update status."
)

// Service is the task API the controller drives.
type Service interface {
	FetchAll(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, data models.FormData) (models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Outcome tells the view what a handled message means for it.
type Outcome int

const (
	// OutcomeNone means nothing for the view to do.
	OutcomeNone Outcome = iota
	// OutcomeCloseForm means a form submit succeeded.
	OutcomeCloseForm
	// OutcomeFailed means a call failed and Notice is set.
	OutcomeFailed
)

// Result messages.
type (
	LoadedMsg struct {
		Tasks []models.Task
		Err   error
	}
	CreatedMsg struct {
		Task models.Task
		Err  error
	}
	UpdatedMsg struct {
		ID   string
		Task models.Task
		Err  error
	}
	DeletedMsg struct {
		ID  string
		Err error
	}
	ToggledMsg struct {
		Toggle Toggle
		Err    error
	}
)

// Controller owns the authoritative in-memory collection.
type Controller struct {
	svc     Service
	ctx     context.Context
	log     logrus.FieldLogger
	tasks   []models.Task
	loading bool
	notice  string
}

// New creates a Controller backed by svc.
func New(svc Service, logger logrus.FieldLogger) *Controller {
	return &Controller{
		svc: svc,
		ctx: context.Background(),
		log: logging.Component(logger, "controller"),
	}
}

// Tasks returns the current collection. Callers must not modify it.
func (c *Controller) Tasks() []models.Task {
	return c.tasks
}

// Find returns the task with id.
func (c *Controller) Find(id string) (models.Task, bool) {
	if i := c.index(id); i >= 0 {
		return c.tasks[i], true
	}
	return models.Task{}, false
}

// Loading reports whether the initial fetch is in flight.
func (c *Controller) Loading() bool {
	return c.loading
}

// Notice is the last failure message, or "".
func (c *Controller) Notice() string {
	return c.notice
}

func (c *Controller) ClearNotice() {
	c.notice = ""
}

// Load fetches the full collection.
func (c *Controller) Load() tea.Cmd {
	c.loading = true
	svc, ctx := c.svc, c.ctx
	return func() tea.Msg {
		tasks, err := svc.FetchAll(ctx)
		return LoadedMsg{Tasks: tasks, Err: err}
	}
}

// Create adds a task. The collection changes only once the service confirms.
func (c *Controller) Create(data models.FormData) tea.Cmd {
	svc, ctx := c.svc, c.ctx
	return func() tea.Msg {
		task, err := svc.Create(ctx, data)
		return CreatedMsg{Task: task, Err: err}
	}
}

// Update saves a full form edit of the task with id.
func (c *Controller) Update(id string, data models.FormData) tea.Cmd {
	svc, ctx := c.svc, c.ctx
	patch := data.Patch()
	return func() tea.Msg {
		task, err := svc.Update(ctx, id, patch)
		return UpdatedMsg{ID: id, Task: task, Err: err}
	}
}

// Delete removes the task with id once the service confirms.
func (c *Controller) Delete(id string) tea.Cmd {
	svc, ctx := c.svc, c.ctx
	return func() tea.Msg {
		return DeletedMsg{ID: id, Err: svc.Delete(ctx, id)}
	}
}

// Toggle flips the task's status immediately and saves it in the
// background. A failed save rolls the status back.
func (c *Controller) Toggle(id string) tea.Cmd {
	tg, ok := c.BeginToggle(id)
	if !ok {
		return nil
	}
	svc, ctx := c.svc, c.ctx
	return func() tea.Msg {
		_, err := svc.Update(ctx, tg.ID, models.StatusPatch(tg.Tentative))
		return ToggledMsg{Toggle: tg, Err: err}
	}
}

// Handle applies a result message and reports what it means for the view.
// Messages of other types are ignored.
func (c *Controller) Handle(msg tea.Msg) Outcome {
	switch msg := msg.(type) {
	case LoadedMsg:
		c.loading = false
		if msg.Err != nil {
			return c.fail(msg.Err, NoticeLoadFailed, "load tasks")
		}
		c.tasks = msg.Tasks
		return OutcomeNone

	case CreatedMsg:
		if msg.Err != nil {
			return c.fail(msg.Err, NoticeCreateFailed, "create task")
		}
		c.tasks = append([]models.Task{msg.Task}, c.tasks...)
		return OutcomeCloseForm

	case UpdatedMsg:
		if msg.Err != nil {
			return c.fail(msg.Err, NoticeUpdateFailed, "update task")
		}
		c.replace(msg.Task)
		return OutcomeCloseForm

	case DeletedMsg:
		if msg.Err != nil {
			return c.fail(msg.Err, NoticeDeleteFailed, "delete task")
		}
		c.tasks = slices.DeleteFunc(slices.Clone(c.tasks), func(t models.Task) bool { return t.ID == msg.ID })
		return OutcomeNone

	case ToggledMsg:
		if msg.Err != nil {
			c.RollbackToggle(msg.Toggle)
			return c.fail(msg.Err, NoticeToggleFailed, "toggle status")
		}
		c.ConfirmToggle(msg.Toggle)
		return OutcomeNone
	}
	return OutcomeNone
}

func (c *Controller) fail(err error, notice, op string) Outcome {
	c.log.WithError(err).Warn(op + " failed")
	c.notice = notice
	return OutcomeFailed
}

func (c *Controller) index(id string) int {
	return slices.IndexFunc(c.tasks, func(t models.Task) bool { return t.ID == id })
}

// replace swaps in task by id. Tasks removed in the meantime stay removed.
func (c *Controller) replace(task models.Task) {
	i := c.index(task.ID)
	if i < 0 {
		return
	}
	tasks := slices.Clone(c.tasks)
	tasks[i] = task
	c.tasks = tasks
}
