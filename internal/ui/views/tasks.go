package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/tasktracker/internal/controller"
	"github.com/tgienger/tasktracker/internal/form"
	"github.com/tgienger/tasktracker/internal/models"
	"github.com/tgienger/tasktracker/internal/pipeline"
	"github.com/tgienger/tasktracker/internal/ui/keys"
	"github.com/tgienger/tasktracker/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// Each task item is 2 lines (title + details) + 1 margin
const itemHeight = 3

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusTaskList FocusArea = iota
	FocusSearchInput
)

// QueryChangedMsg reports a new filter or sort choice.
type QueryChangedMsg struct {
	Filter pipeline.Filter
	Sort   pipeline.SortKey
}

// Options tunes a TaskListView.
type Options struct {
	// Debounce is the search input debounce window.
	Debounce time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// TaskListView shows the task list, the edit form and the popups.
type TaskListView struct {
	ctrl   *controller.Controller
	pipe   *pipeline.Pipeline
	styles *styles.Styles
	keys   keys.KeyMap
	now    func() time.Time

	width  int
	height int

	// List state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	search      *Debouncer
	filter      pipeline.Filter
	sort        pipeline.SortKey
	spinner     spinner.Model
	progress    progress.Model

	// Task creation/editing
	editing      bool
	submitting   bool
	validator    *form.Validator
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editFocusIdx int

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a new task list view
func NewTaskListView(ctrl *controller.Controller, pipe *pipeline.Pipeline, opts Options) *TaskListView {
	s := styles.NewStyles()
	if opts.Now == nil {
		opts.Now = time.Now
	}

	search := textinput.New()
	search.Placeholder = "Find a task..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "e.g. Design homepage layout"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "What needs to be done?"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Current.Primary)),
	)

	bar := progress.New(
		progress.WithGradient(string(styles.Current.Primary), string(styles.Current.Secondary)),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)

	return &TaskListView{
		ctrl:        ctrl,
		pipe:        pipe,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
		now:         opts.Now,
		focus:       FocusTaskList,
		searchInput: search,
		search:      NewDebouncer(opts.Debounce),
		filter:      pipeline.FilterAll,
		sort:        pipeline.SortDate,
		spinner:     sp,
		progress:    bar,
		validator:   form.NewCreate(models.DateOf(opts.Now())),
		editTitle:   editTitle,
		editDesc:    editDesc,
		editDue:     editDue,
	}
}

// SetQuery restores a saved filter and sort.
func (v *TaskListView) SetQuery(f pipeline.Filter, k pipeline.SortKey) {
	v.filter = f
	v.sort = k
	v.resetCursor()
}

// Query is the view's current pipeline query.
func (v *TaskListView) Query() pipeline.Query {
	return pipeline.Query{Search: v.search.Value(), Filter: v.filter, Sort: v.sort}
}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.ctrl.Load(), v.spinner.Tick)
}

func (v *TaskListView) today() models.Date {
	return models.DateOf(v.now())
}

// visible is the displayed list, derived fresh from the controller.
func (v *TaskListView) visible() []models.Task {
	return v.pipe.Apply(v.ctrl.Tasks(), v.Query())
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Update input widths dynamically based on content width
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.progress.Width = clamp(contentWidth-24, 10, 40)
		return v, nil

	case spinner.TickMsg:
		if !v.ctrl.Loading() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case DebounceMsg:
		if v.search.Commit(msg) {
			v.resetCursor()
		}
		return v, nil

	case controller.LoadedMsg, controller.CreatedMsg, controller.UpdatedMsg,
		controller.DeletedMsg, controller.ToggledMsg:
		v.handleResult(msg)
		return v, nil

	case tea.KeyMsg:
		// A notice stays up until the next key press
		v.ctrl.ClearNotice()

		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) handleResult(msg tea.Msg) {
	outcome := v.ctrl.Handle(msg)
	switch msg.(type) {
	case controller.CreatedMsg, controller.UpdatedMsg:
		if v.submitting {
			v.submitting = false
			if outcome == controller.OutcomeCloseForm {
				v.editing = false
			}
		}
	}
	v.clampCursor()
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Tab):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			v.search.Flush(v.searchInput.Value())
			v.resetCursor()
			return v, nil
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			_, tick := v.search.Push(v.searchInput.Value())
			if tick == nil {
				v.resetCursor()
			}
			return v, tea.Batch(cmd, tick)
		}
	}

	tasks := v.visible()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Search), key.Matches(msg, v.keys.Tab):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Back):
		if v.searchInput.Value() != "" {
			v.searchInput.Reset()
			v.search.Flush("")
			v.resetCursor()
		}
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Edit), key.Matches(msg, v.keys.Enter):
		if task, ok := v.selected(tasks); ok {
			v.startEditTask(task)
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if task, ok := v.selected(tasks); ok {
			v.confirmingDelete = true
			v.deleteTargetID = task.ID
			v.deleteTargetName = task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		task, ok := v.selected(tasks)
		if !ok {
			return v, nil
		}
		cmd := v.ctrl.Toggle(task.ID)
		v.follow(task.ID)
		return v, cmd

	case key.Matches(msg, v.keys.Filter):
		v.filter = v.filter.Next()
		v.resetCursor()
		return v, v.queryChanged()

	case key.Matches(msg, v.keys.Sort):
		v.sort = v.sort.Next()
		v.resetCursor()
		return v, v.queryChanged()

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) queryChanged() tea.Cmd {
	f, k := v.filter, v.sort
	return func() tea.Msg { return QueryChangedMsg{Filter: f, Sort: k} }
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		return v, v.ctrl.Delete(v.deleteTargetID)
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// selected returns the task under the cursor, if any.
func (v *TaskListView) selected(tasks []models.Task) (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[v.cursor], true
}

// follow moves the cursor to the task with id after the list reorders. A
// task that left the view leaves the cursor clamped in place.
func (v *TaskListView) follow(id string) {
	if i := slices.IndexFunc(v.visible(), func(t models.Task) bool { return t.ID == id }); i >= 0 {
		v.cursor = i
	}
	v.clampCursor()
}

func (v *TaskListView) resetCursor() {
	v.cursor = 0
	v.scrollY = 0
}

func (v *TaskListView) clampCursor() {
	n := len(v.visible())
	if v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	v.ensureVisible()
}

func (v *TaskListView) visibleItems() int {
	return max((v.height-14)/itemHeight, 1)
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder

	// Header with progress, search, filter and sort
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	// Task list
	b.WriteString(v.renderTaskList())

	// Notice or help
	b.WriteString("\n")
	b.WriteString(v.renderStatusBar())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	subtitle := s.TitleMuted.Render("Synced with remote API.")
	pct := pipeline.Progress(v.ctrl.Tasks())
	progressLine := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Progress.Render(fmt.Sprintf("%3d%%", pct)), " ",
		v.progress.ViewAs(float64(pct)/100), " ",
		s.TitleMuted.Render("Progress"),
	)
	title := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Task Tracker"),
		subtitle,
		progressLine,
	)

	// Search input - dynamic width
	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	filterBtn := s.Button.Render(v.filter.Label() + " ▼")
	sortBtn := s.Button.Render(v.sort.Label() + " ▼")

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left,
			searchBox,
			lipgloss.JoinHorizontal(lipgloss.Center, filterBtn, " ", sortBtn),
		)
	} else {
		header = lipgloss.JoinHorizontal(lipgloss.Center,
			searchBox, "  ", filterBtn, " ", sortBtn,
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, "", header)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if v.ctrl.Loading() {
		return v.spinner.View() + " " + s.TitleMuted.Render("Syncing API")
	}

	tasks := v.visible()
	if len(tasks) == 0 {
		return s.TitleMuted.Render("No tasks found.")
	}

	today := v.today()
	endIdx := min(v.scrollY+v.visibleItems(), len(tasks))

	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		selected := i == v.cursor && v.focus == FocusTaskList
		items = append(items, v.renderTaskItem(tasks[i], selected, today))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, today models.Date) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	checkbox := "[ ]"
	title := task.Title
	if task.Done() {
		checkbox = "[x]"
		title = s.TaskDone.Render(title)
	}
	titleLine := checkbox + " " + title + " " + s.Priority(task.Priority).Render(string(task.Priority))

	// Details line: description, due date and done badge
	var details []string
	if task.Description != "" && !task.Done() {
		details = append(details, truncate(strings.Join(strings.Fields(task.Description), " "), width/2))
	}
	if pipeline.Overdue(task, today) {
		details = append(details, s.TaskOverdue.Render("Overdue "+task.DueDate.Format("Jan 2")))
	} else {
		details = append(details, s.TaskDue.Render("Due "+task.DueDate.Format("Jan 2")))
	}
	if task.Done() {
		details = append(details, s.DoneBadge.Render("Done"))
	}
	detailLine := "    " + strings.Join(details, " • ")

	// Apply styling based on selection state
	lineStyle := s.ListItem.Width(width)
	if selected {
		lineStyle = s.ListSelected.Width(width)
	}

	// Return two-line item with margin
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Render(titleLine),
		lineStyle.Render(detailLine),
	) + "\n"
}

func truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func (v *TaskListView) renderStatusBar() string {
	if notice := v.ctrl.Notice(); notice != "" {
		return v.styles.Notice.Render(notice)
	}
	return v.renderHelp()
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s done • %s edit • %s new • %s del • %s search • %s filter • %s sort • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  mark done / pending",
		s.HelpKey.Render("↵ e") + "    edit task",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("/") + "      search",
		s.HelpKey.Render("f") + "      cycle status filter",
		s.HelpKey.Render("s") + "      cycle sort order",
		s.HelpKey.Render("esc") + "    clear search",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Box.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(truncate(v.deleteTargetName, max(contentWidth-10, 10))),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
