package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/tasktracker/internal/config"
	"github.com/tgienger/tasktracker/internal/controller"
	"github.com/tgienger/tasktracker/internal/db"
	"github.com/tgienger/tasktracker/internal/logging"
	"github.com/tgienger/tasktracker/internal/pipeline"
	"github.com/tgienger/tasktracker/internal/service"
	"github.com/tgienger/tasktracker/internal/store"
	"github.com/tgienger/tasktracker/internal/ui"
	"github.com/tgienger/tasktracker/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// backend is a task store backend that also keeps view preferences.
type backend interface {
	store.Backend
	ui.Settings
}

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("tasktracker %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	fs := flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger, logFile, err := logging.New(logging.Options{Path: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logFile.Close()

	logger.WithFields(logrus.Fields{
		"version": version,
		"backend": cfg.Backend,
		"config":  cfg.ConfigFile,
	}).Info("starting")

	be, closeBackend, err := openBackend(cfg)
	if err != nil {
		logger.WithError(err).Error("open backend")
		return fmt.Errorf("initializing %s backend: %w", cfg.Backend, err)
	}
	defer closeBackend()

	st := store.New(be, cfg.StoreKey, logger)
	svc := service.New(st,
		service.WithLatency(cfg.Latency),
		service.WithLogger(logger),
	)
	ctrl := controller.New(svc, logger)
	taskList := views.NewTaskListView(ctrl, pipeline.New(cfg.Language()), views.Options{
		Debounce: cfg.Debounce,
	})

	// Create and run the application
	app := ui.NewApp(taskList, be, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		logger.WithError(err).Error("program exited")
		return fmt.Errorf("running application: %w", err)
	}
	logger.Info("stopped")
	return nil
}

func openBackend(cfg *config.Config) (backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		r, err := store.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case config.BackendMemory:
		return store.NewMemoryBackend(), func() error { return nil }, nil

	default:
		database, err := db.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return database, database.Close, nil
	}
}
