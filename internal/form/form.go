// Package form stages and validates task edits before they are submitted.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tgienger/tasktracker/internal/models"
)

// ErrValidation is wrapped by Validator.Err when any rule fails.
var ErrValidation = errors.New("validation failed")

// Field names used as keys in Errors.
const (
	FieldTitle   = "title"
	FieldDueDate = "dueDate"
)

const (
	msgTitleRequired = "Title is required"
	msgPastDueDate   = "Due date cannot be in the past"
	msgBadDate       = "Enter a date as YYYY-MM-DD"
	referenceLayout  = "Jan 2, 2006"
)

// Validator holds the staged form and its current errors. Every setter
// recomputes the errors.
type Validator struct {
	data    models.FormData
	editing *models.Task
	today   models.Date
	// dateText holds unparsable due date input, if any
	dateText string
	errors   map[string]string
}

// NewCreate opens a blank form for a new task.
func NewCreate(today models.Date) *Validator {
	v := &Validator{}
	v.ResetCreate(today)
	return v
}

// NewEdit opens a form prefilled from task.
func NewEdit(task models.Task, today models.Date) *Validator {
	v := &Validator{}
	v.ResetEdit(task, today)
	return v
}

// ResetCreate reopens the form for a new task.
func (v *Validator) ResetCreate(today models.Date) {
	v.editing = nil
	v.today = today
	v.data = models.DefaultFormData(today)
	v.dateText = ""
	v.validate()
}

// ResetEdit reopens the form for an existing task.
func (v *Validator) ResetEdit(task models.Task, today models.Date) {
	v.editing = &task
	v.today = today
	v.data = models.FormDataFrom(task)
	v.dateText = ""
	v.validate()
}

// Editing returns the task being edited, or nil when creating.
func (v *Validator) Editing() *models.Task {
	return v.editing
}

// ReferenceDate is the earliest allowed due date: the creation date of the
// task being edited, or today for a new task.
func (v *Validator) ReferenceDate() models.Date {
	if v.editing != nil {
		return models.DateOf(v.editing.CreatedAt)
	}
	return v.today
}

func (v *Validator) SetTitle(title string) {
	v.data.Title = title
	v.validate()
}

func (v *Validator) SetDescription(desc string) {
	v.data.Description = desc
	v.validate()
}

func (v *Validator) SetDueDate(d models.Date) {
	v.data.DueDate = d
	v.dateText = ""
	v.validate()
}

// SetDueDateText parses YYYY-MM-DD input. Unparsable text keeps the last
// good date and reports a date error until corrected.
func (v *Validator) SetDueDateText(text string) {
	d, err := models.ParseDate(strings.TrimSpace(text))
	if err != nil {
		v.dateText = text
		v.validate()
		return
	}
	v.SetDueDate(d)
}

func (v *Validator) SetStatus(s models.Status) {
	v.data.Status = s
	v.validate()
}

func (v *Validator) SetPriority(p models.Priority) {
	v.data.Priority = p
	v.validate()
}

// Data returns the staged form.
func (v *Validator) Data() models.FormData {
	return v.data
}

// Valid reports whether the form may be submitted.
func (v *Validator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns the message for each failing field.
func (v *Validator) Errors() map[string]string {
	out := make(map[string]string, len(v.errors))
	for k, msg := range v.errors {
		out[k] = msg
	}
	return out
}

// Error returns the message for one field, or "".
func (v *Validator) Error(field string) string {
	return v.errors[field]
}

// Err returns nil when valid, otherwise an error wrapping ErrValidation.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make([]string, 0, len(v.errors))
	for k := range v.errors {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	msgs := make([]string, len(fields))
	for i, k := range fields {
		msgs[i] = v.errors[k]
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (v *Validator) validate() {
	errs := make(map[string]string)

	if strings.TrimSpace(v.data.Title) == "" {
		errs[FieldTitle] = msgTitleRequired
	}

	ref := v.ReferenceDate()
	switch {
	case v.dateText != "":
		errs[FieldDueDate] = msgBadDate
	case v.data.DueDate.Before(ref.Time):
		if v.editing != nil {
			errs[FieldDueDate] = fmt.Sprintf("Date cannot be earlier than creation (%s)", ref.Format(referenceLayout))
		} else {
			errs[FieldDueDate] = msgPastDueDate
		}
	}

	v.errors = errs
}
