package views

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/tgienger/tasktracker/internal/controller"
	"github.com/tgienger/tasktracker/internal/models"
	"github.com/tgienger/tasktracker/internal/pipeline"
	"github.com/tgienger/tasktracker/internal/service"
	"github.com/tgienger/tasktracker/internal/store"
)

func clock() time.Time {
	return time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
}

func newView(t *testing.T, debounce time.Duration) (*TaskListView, *controller.Controller) {
	t.Helper()
	st := store.New(store.NewMemoryBackend(), store.DefaultKey, nil)
	svc := service.New(st, service.WithLatency(0), service.WithClock(clock))
	ctrl := controller.New(svc, nil)
	v := NewTaskListView(ctrl, pipeline.New(language.English), Options{Debounce: debounce, Now: clock})
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})
	send(v, ctrl.Load()())
	require.Len(t, ctrl.Tasks(), 3)
	return v, ctrl
}

func send(v *TaskListView, msg tea.Msg) tea.Cmd {
	_, cmd := v.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestLoadingState(t *testing.T) {
	st := store.New(store.NewMemoryBackend(), store.DefaultKey, nil)
	ctrl := controller.New(service.New(st, service.WithLatency(0)), nil)
	v := NewTaskListView(ctrl, pipeline.New(language.English), Options{Now: clock})

	cmd := ctrl.Load()
	assert.Contains(t, v.View(), "Syncing API")

	send(v, cmd())
	assert.NotContains(t, v.View(), "Syncing API")
}

func TestRenderList(t *testing.T) {
	v, _ := newView(t, 0)

	out := v.View()
	assert.Contains(t, out, "Task Tracker")
	assert.Contains(t, out, "33%")
	assert.Contains(t, out, "Review PR #45")
	assert.Contains(t, out, "Overdue May 31")
	assert.Contains(t, out, "All Status")
	assert.Contains(t, out, "By Date")

	assert.Equal(t,
		[]string{"Review PR #45", "Complete Project Proposal", "Update Documentation"},
		titles(v.visible()))
}

func TestFilterAndSortKeys(t *testing.T) {
	v, _ := newView(t, 0)

	cmd := send(v, runes("f"))
	require.NotNil(t, cmd)
	assert.Equal(t, QueryChangedMsg{Filter: pipeline.FilterPending, Sort: pipeline.SortDate}, cmd())
	assert.Len(t, v.visible(), 2)

	cmd = send(v, runes("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, QueryChangedMsg{Filter: pipeline.FilterPending, Sort: pipeline.SortTitle}, cmd())
	assert.Equal(t, []string{"Complete Project Proposal", "Review PR #45"}, titles(v.visible()))
	assert.Contains(t, v.View(), "By Name")
}

func TestSearchIsDebounced(t *testing.T) {
	v, _ := newView(t, 300*time.Millisecond)

	send(v, runes("/"))
	assert.Equal(t, FocusSearchInput, v.focus)

	send(v, runes("d"))
	stale := v.search.seq
	send(v, runes("oc"))
	assert.Len(t, v.visible(), 3, "nothing applied before the window passes")

	send(v, DebounceMsg{Seq: stale, Value: "d"})
	assert.Len(t, v.visible(), 3)

	send(v, DebounceMsg{Seq: v.search.seq, Value: "doc"})
	assert.Equal(t, []string{"Update Documentation"}, titles(v.visible()))

	send(v, DebounceMsg{Seq: v.search.seq, Value: "zzz"})
	assert.Contains(t, v.View(), "No tasks found.")
}

func TestSearchEnterAppliesImmediately(t *testing.T) {
	v, _ := newView(t, time.Hour)

	send(v, runes("/"))
	send(v, runes("review"))
	send(v, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, FocusTaskList, v.focus)
	assert.Equal(t, []string{"Review PR #45"}, titles(v.visible()))

	send(v, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, v.visible(), 3)
}

func TestToggleKey(t *testing.T) {
	v, ctrl := newView(t, 0)
	id := v.visible()[0].ID

	cmd := send(v, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	got, _ := ctrl.Find(id)
	assert.Equal(t, models.StatusDone, got.Status)

	send(v, cmd())
	got, _ = ctrl.Find(id)
	assert.Equal(t, models.StatusDone, got.Status)
	assert.Contains(t, v.View(), "67%")
}

func TestCreateFromForm(t *testing.T) {
	v, ctrl := newView(t, 0)

	send(v, runes("n"))
	require.True(t, v.editing)
	assert.Contains(t, v.View(), "New Task")
	assert.Contains(t, v.View(), "Title is required")
	assert.Nil(t, send(v, tea.KeyMsg{Type: tea.KeyCtrlS}), "invalid form does not submit")

	send(v, runes("Buy milk"))
	send(v, tea.KeyMsg{Type: tea.KeyTab})
	send(v, tea.KeyMsg{Type: tea.KeyTab})
	send(v, tea.KeyMsg{Type: tea.KeyTab})
	send(v, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, models.PriorityHigh, v.validator.Data().Priority)

	cmd := send(v, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Nil(t, send(v, tea.KeyMsg{Type: tea.KeyCtrlS}), "no double submit")

	send(v, cmd())
	assert.False(t, v.editing)
	require.Len(t, ctrl.Tasks(), 4)
	assert.Equal(t, "Buy milk", ctrl.Tasks()[0].Title)
	assert.Equal(t, models.PriorityHigh, ctrl.Tasks()[0].Priority)
}

func TestEditFormRejectsPastDate(t *testing.T) {
	v, ctrl := newView(t, 0)
	target := v.visible()[0]

	send(v, runes("e"))
	require.True(t, v.editing)
	assert.Contains(t, v.View(), "Update Task")

	send(v, tea.KeyMsg{Type: tea.KeyTab})
	send(v, tea.KeyMsg{Type: tea.KeyTab})
	v.editDue.SetValue("")
	send(v, runes("2024-05-01"))
	assert.Contains(t, v.validator.Error("dueDate"), "Date cannot be earlier than creation")
	assert.Nil(t, send(v, tea.KeyMsg{Type: tea.KeyCtrlS}))

	send(v, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "Enter a date as YYYY-MM-DD", v.validator.Error("dueDate"))

	v.editDue.SetValue("")
	send(v, runes("2024-06-20"))
	assert.True(t, v.validator.Valid())
	cmd := send(v, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	send(v, cmd())

	got, _ := ctrl.Find(target.ID)
	assert.Equal(t, "2024-06-20", got.DueDate.String())
	assert.False(t, v.editing)
}

func TestDeleteConfirm(t *testing.T) {
	v, ctrl := newView(t, 0)
	target := v.visible()[0]

	send(v, runes("d"))
	assert.Contains(t, v.View(), "Delete Task?")
	assert.Nil(t, send(v, runes("n")))
	assert.Len(t, ctrl.Tasks(), 3)

	send(v, runes("d"))
	cmd := send(v, runes("y"))
	require.NotNil(t, cmd)
	send(v, cmd())

	_, ok := ctrl.Find(target.ID)
	assert.False(t, ok)
	assert.Len(t, v.visible(), 2)
}

func TestNoticeClearsOnKeyPress(t *testing.T) {
	v, _ := newView(t, 0)

	send(v, controller.LoadedMsg{Err: errors.New("boom")})
	assert.Contains(t, v.View(), controller.NoticeLoadFailed)

	send(v, runes("j"))
	assert.NotContains(t, v.View(), controller.NoticeLoadFailed)
}

func TestCursorClampsAfterDelete(t *testing.T) {
	v, _ := newView(t, 0)
	send(v, runes("j"))
	send(v, runes("j"))
	require.Equal(t, 2, v.cursor)

	last := v.visible()[2]
	send(v, controller.DeletedMsg{ID: last.ID})
	assert.Equal(t, 1, v.cursor)
}

func TestToggleUnderPendingFilterClampsCursor(t *testing.T) {
	v, _ := newView(t, 0)
	send(v, runes("f"))
	send(v, runes("j"))
	require.Equal(t, 1, v.cursor)
	require.Equal(t, "Complete Project Proposal", v.visible()[1].Title)

	cmd := send(v, runes("x"))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"Review PR #45"}, titles(v.visible()))
	assert.Equal(t, 0, v.cursor)

	require.NotPanics(t, func() { send(v, runes("e")) })
	require.True(t, v.editing)
	assert.Equal(t, "Review PR #45", v.validator.Data().Title)

	send(v, cmd())
	assert.Equal(t, 0, v.cursor)
}

func TestCursorFollowsToggledTask(t *testing.T) {
	v, ctrl := newView(t, 0)
	target := v.visible()[0]
	require.Equal(t, "Review PR #45", target.Title)
	other := v.visible()[1]

	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	first := send(v, space)
	require.NotNil(t, first)
	assert.Equal(t,
		[]string{"Complete Project Proposal", "Review PR #45", "Update Documentation"},
		titles(v.visible()))
	assert.Equal(t, 1, v.cursor)

	second := send(v, space)
	require.NotNil(t, second)
	assert.Equal(t, 0, v.cursor)

	send(v, first())
	send(v, second())

	got, _ := ctrl.Find(target.ID)
	assert.Equal(t, models.StatusPending, got.Status)
	got, _ = ctrl.Find(other.ID)
	assert.Equal(t, models.StatusPending, got.Status, "neighbour is untouched")
}
