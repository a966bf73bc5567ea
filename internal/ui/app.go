package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/tasktracker/internal/logging"
	"github.com/tgienger/tasktracker/internal/pipeline"
	"github.com/tgienger/tasktracker/internal/ui/views"
)

// Setting keys for the saved view choices.
const (
	SettingFilter = "view_filter"
	SettingSort   = "view_sort"
)

// Settings stores small string preferences. *db.DB, *store.MemoryBackend and
// *store.RedisBackend implement it.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type App struct {
	settings Settings
	log      logrus.FieldLogger
	taskList *views.TaskListView
	width    int
	height   int
}

// Creates a new application
func NewApp(taskList *views.TaskListView, settings Settings, logger logrus.FieldLogger) *App {
	return &App{
		settings: settings,
		log:      logging.Component(logger, "ui"),
		taskList: taskList,
	}
}

func (a *App) Init() tea.Cmd {
	// Restore the last filter and sort
	filter, err := a.settings.GetSetting(SettingFilter)
	if err != nil {
		a.log.WithError(err).Warn("read view filter")
	}
	sort, err := a.settings.GetSetting(SettingSort)
	if err != nil {
		a.log.WithError(err).Warn("read view sort")
	}
	a.taskList.SetQuery(pipeline.ParseFilter(filter), pipeline.ParseSortKey(sort))

	return a.taskList.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case views.QueryChangedMsg:
		if err := a.settings.SetSetting(SettingFilter, string(msg.Filter)); err != nil {
			a.log.WithError(err).Warn("save view filter")
		}
		if err := a.settings.SetSetting(SettingSort, string(msg.Sort)); err != nil {
			a.log.WithError(err).Warn("save view sort")
		}
		return a, nil
	}

	_, cmd := a.taskList.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.taskList.View()
}
