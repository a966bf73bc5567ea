package service

import (
	"time"

	"github.com/tgienger/tasktracker/internal/models"
)

// sampleTasks returns the starter collection written to an empty store. Due
// dates are relative to now so the examples never go stale.
func sampleTasks(now time.Time, newID func() string) []models.Task {
	today := models.DateOf(now)
	return []models.Task{
		{
			ID:          newID(),
			Title:       "Complete Project Proposal",
			Description: "Draft the initial requirements and timeline for the Q4 marketing project.",
			DueDate:     today.AddDays(2),
			Status:      models.StatusPending,
			Priority:    models.PriorityHigh,
			CreatedAt:   now,
		},
		{
			ID:          newID(),
			Title:       "Review PR #45",
			Description: "Code review for the new authentication flow implementation.",
			DueDate:     today.AddDays(-1),
			Status:      models.StatusPending,
			Priority:    models.PriorityMedium,
			CreatedAt:   now,
		},
		{
			ID:          newID(),
			Title:       "Update Documentation",
			Description: "Reflect the latest API changes in the developer portal.",
			DueDate:     today.AddDays(5),
			Status:      models.StatusDone,
			Priority:    models.PriorityLow,
			CreatedAt:   now,
		},
	}
}
