package controller

import "github.com/tgienger/tasktracker/internal/models"

// Toggle is the snapshot taken for an optimistic status change.
type Toggle struct {
	ID        string
	Prior     models.Status
	Tentative models.Status
}

// BeginToggle snapshots the task's status and applies the flipped one. It
// returns false when no task has id.
func (c *Controller) BeginToggle(id string) (Toggle, bool) {
	task, ok := c.Find(id)
	if !ok {
		return Toggle{}, false
	}
	tg := Toggle{ID: id, Prior: task.Status, Tentative: task.Status.Toggled()}
	c.setStatus(id, tg.Tentative)
	return tg, true
}

// ConfirmToggle discards the snapshot; the tentative status stands.
func (c *Controller) ConfirmToggle(Toggle) {}

// RollbackToggle restores the status captured by BeginToggle.
func (c *Controller) RollbackToggle(tg Toggle) {
	c.setStatus(tg.ID, tg.Prior)
}

func (c *Controller) setStatus(id string, s models.Status) {
	task, ok := c.Find(id)
	if !ok {
		return
	}
	task.Status = s
	c.replace(task)
}
