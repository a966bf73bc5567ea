package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the completion state of a task
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// Toggled returns the opposite status
func (s Status) Toggled() Status {
	if s == StatusDone {
		return StatusPending
	}
	return StatusDone
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Priority is the importance of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Weight orders priorities HIGH > MEDIUM > LOW. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Next cycles LOW -> MEDIUM -> HIGH -> LOW
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	}
	return PriorityLow
}

// Task represents a single to-do item
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     Date      `json:"dueDate"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Done reports whether the task is complete
func (t Task) Done() bool {
	return t.Status == StatusDone
}

// FormData is the editable projection of a Task, staged before commit
type FormData struct {
	Title       string
	Description string
	DueDate     Date
	Status      Status
	Priority    Priority
}

// DefaultFormData returns the blank form used for new tasks
func DefaultFormData(today Date) FormData {
	return FormData{
		DueDate:  today,
		Status:   StatusPending,
		Priority: PriorityMedium,
	}
}

// FormDataFrom copies the editable fields of a task
func FormDataFrom(t Task) FormData {
	return FormData{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Priority:    t.Priority,
	}
}

// Patch returns a patch that overwrites every editable field
func (f FormData) Patch() TaskPatch {
	return TaskPatch{
		Title:       &f.Title,
		Description: &f.Description,
		DueDate:     &f.DueDate,
		Status:      &f.Status,
		Priority:    &f.Priority,
	}
}

// TaskPatch is a partial update. Nil fields are left untouched; ID and
// CreatedAt cannot be patched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *Date
	Status      *Status
	Priority    *Priority
}

// StatusPatch returns a patch that only changes the status
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Status: &s}
}

// Apply merges the patch over t
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// Date is a calendar date with no meaningful time of day. It is stored as
// midnight UTC so that values compare with the embedded time methods.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a date from its parts
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 datetime
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (n may be negative)
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
