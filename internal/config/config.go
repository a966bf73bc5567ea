package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Default values.
const (
	DefaultBackend  = BackendSQLite
	DefaultStoreKey = "task_tracker_data"
	DefaultRedisURL = "redis://localhost:6379/0"
	DefaultLatency  = 600 * time.Millisecond
	DefaultDebounce = 300 * time.Millisecond
	DefaultLocale   = "en"
	DefaultLogLevel = "info"
)

// Config holds the full configuration for tasktracker.
type Config struct {
	// Storage
	Backend  string `toml:"backend"`
	DBPath   string `toml:"db_path"`
	RedisURL string `toml:"redis_url"`
	StoreKey string `toml:"store_key"`

	// Simulated round-trip time of every service call
	Latency time.Duration `toml:"latency"`
	// Quiet period before search text is applied
	Debounce time.Duration `toml:"debounce"`
	// BCP 47 tag used to collate titles
	Locale string `toml:"locale"`

	// Logging
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// ConfigFile is the file that was loaded, if any (computed)
	ConfigFile string `toml:"-"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.RedisURL = DefaultRedisURL
	cfg.StoreKey = DefaultStoreKey
	cfg.Latency = DefaultLatency
	cfg.Debounce = DefaultDebounce
	cfg.Locale = DefaultLocale
	cfg.LogLevel = DefaultLogLevel
}

// Load builds the configuration from defaults, config file, environment and
// the flags in args.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	}
	flags := bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg := Default()

	path, explicit := flags.configPath(fs)
	if path == "" {
		path = os.Getenv("TASKTRACKER_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		} else {
			cfg.ConfigFile = path
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	flags.apply(cfg, fs)

	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.LogFile = expandPath(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes a TOML file over cfg.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("invalid backend %q (want sqlite, redis or memory)", c.Backend)
	}
	if c.Backend == BackendRedis && c.RedisURL == "" {
		return fmt.Errorf("redis backend requires redis_url")
	}
	if strings.TrimSpace(c.StoreKey) == "" {
		return fmt.Errorf("store_key must not be empty")
	}
	if c.Latency < 0 {
		return fmt.Errorf("latency must not be negative")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative")
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

// Language returns the parsed locale, falling back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// defaultConfigFile returns $XDG_CONFIG_HOME/tasktracker/config.toml or the
// ~/.config equivalent.
func defaultConfigFile() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "tasktracker", "config.toml")
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
