package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/tasktracker/internal/form"
	"github.com/tgienger/tasktracker/internal/models"
	"github.com/tgienger/tasktracker/internal/ui/styles"
)

// Edit form fields, in tab order.
const (
	fieldTitle = iota
	fieldDesc
	fieldDue
	fieldPriority
	fieldStatus
	fieldSave
	fieldCount
)

func (v *TaskListView) startNewTask() {
	v.validator.ResetCreate(v.today())
	v.openForm()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.validator.ResetEdit(task, v.today())
	v.openForm()
}

func (v *TaskListView) openForm() {
	data := v.validator.Data()
	v.editing = true
	v.submitting = false
	v.editFocusIdx = fieldTitle
	v.editTitle.SetValue(data.Title)
	v.editDesc.SetValue(data.Description)
	v.editDue.SetValue(data.DueDate.String())
	v.updateEditFocus()
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldSave:
			return v, v.saveTask()
		case fieldDesc:
			// Let enter pass through for newlines
		default:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}

	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Right):
		data := v.validator.Data()
		switch v.editFocusIdx {
		case fieldPriority:
			p := data.Priority.Next()
			if key.Matches(msg, v.keys.Left) {
				p = p.Next()
			}
			v.validator.SetPriority(p)
			return v, nil
		case fieldStatus:
			v.validator.SetStatus(data.Status.Toggled())
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
		v.validator.SetTitle(v.editTitle.Value())
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
		v.validator.SetDescription(v.editDesc.Value())
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
		v.validator.SetDueDateText(v.editDue.Value())
	}
	return v, cmd
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldDue:
		v.editDue.Focus()
	}
}

// saveTask submits the form. Nothing is sent while the form is invalid or a
// submit is already in flight.
func (v *TaskListView) saveTask() tea.Cmd {
	if v.submitting || !v.validator.Valid() {
		return nil
	}
	v.submitting = true
	data := v.validator.Data()
	if task := v.validator.Editing(); task != nil {
		return v.ctrl.Update(task.ID, data)
	}
	return v.ctrl.Create(data)
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	data := v.validator.Data()

	formTitle := "New Task"
	if v.validator.Editing() != nil {
		formTitle = "Update Task"
	}

	inputStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}

	btnStyle := s.Button
	switch {
	case !v.validator.Valid() || v.submitting:
		btnStyle = s.ButtonDisabled
	case v.editFocusIdx == fieldSave:
		btnStyle = s.ButtonFocused
	}
	btnLabel := " Save Task "
	if v.submitting {
		btnLabel = " Saving... "
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	priority := s.Priority(data.Priority).Render(string(data.Priority))
	status := "Pending"
	if data.Status == models.StatusDone {
		status = "Done"
	}

	rows := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		inputStyle(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
	}
	rows = append(rows, v.fieldError(form.FieldTitle)...)
	rows = append(rows,
		"",
		"Description:",
		inputStyle(fieldDesc).Render(v.editDesc.View()),
		"",
		"Due Date:",
		inputStyle(fieldDue).Width(14).Render(v.editDue.View()),
	)
	rows = append(rows, v.fieldError(form.FieldDueDate)...)
	rows = append(rows,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, "Priority:", inputStyle(fieldPriority).Render("◀ "+priority+" ▶")),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, "Status:", inputStyle(fieldStatus).Render("◀ "+status+" ▶")),
		),
		"",
		btnStyle.Render(btnLabel),
		"",
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)

	// Center within content width, then center that in terminal
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) fieldError(field string) []string {
	if msg := v.validator.Error(field); msg != "" {
		return []string{v.styles.FieldError.Render(msg)}
	}
	return nil
}
