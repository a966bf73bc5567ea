package config

import (
	"fmt"
	"os"
	"time"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKTRACKER_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TASKTRACKER_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKTRACKER_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("TASKTRACKER_STORE_KEY"); v != "" {
		cfg.StoreKey = v
	}
	if v := os.Getenv("TASKTRACKER_LATENCY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKTRACKER_LATENCY: %w", err)
		}
		cfg.Latency = d
	}
	if v := os.Getenv("TASKTRACKER_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKTRACKER_DEBOUNCE: %w", err)
		}
		cfg.Debounce = d
	}
	if v := os.Getenv("TASKTRACKER_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := os.Getenv("TASKTRACKER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKTRACKER_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}
