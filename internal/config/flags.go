package config

import (
	"flag"
	"time"
)

// flagValues holds raw flag values until they are applied over the
// lower-priority sources.
type flagValues struct {
	config   string
	backend  string
	dbPath   string
	redisURL string
	storeKey string
	latency  time.Duration
	debounce time.Duration
	locale   string
	logLevel string
	logFile  string
}

// bindFlags defines the CLI flags on fs.
func bindFlags(fs *flag.FlagSet) *flagValues {
	v := &flagValues{}
	fs.StringVar(&v.config, "config", "", "Path to config file")
	fs.StringVar(&v.backend, "backend", DefaultBackend, "Storage backend: sqlite, redis or memory")
	fs.StringVar(&v.dbPath, "db", "", "Path to sqlite database")
	fs.StringVar(&v.redisURL, "redis-url", DefaultRedisURL, "Redis URL for the redis backend")
	fs.StringVar(&v.storeKey, "store-key", DefaultStoreKey, "Key the task collection is stored under")
	fs.DurationVar(&v.latency, "latency", DefaultLatency, "Simulated API latency")
	fs.DurationVar(&v.debounce, "debounce", DefaultDebounce, "Search debounce window")
	fs.StringVar(&v.locale, "locale", DefaultLocale, "Locale used to sort titles")
	fs.StringVar(&v.logLevel, "log-level", DefaultLogLevel, "Log level")
	fs.StringVar(&v.logFile, "log-file", "", "Log file path")
	return v
}

// configPath reports the --config value and whether it was given.
func (v *flagValues) configPath(fs *flag.FlagSet) (string, bool) {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			set = true
		}
	})
	return v.config, set
}

// apply copies explicitly set flags into cfg.
func (v *flagValues) apply(cfg *Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = v.backend
		case "db":
			cfg.DBPath = v.dbPath
		case "redis-url":
			cfg.RedisURL = v.redisURL
		case "store-key":
			cfg.StoreKey = v.storeKey
		case "latency":
			cfg.Latency = v.latency
		case "debounce":
			cfg.Debounce = v.debounce
		case "locale":
			cfg.Locale = v.locale
		case "log-level":
			cfg.LogLevel = v.logLevel
		case "log-file":
			cfg.LogFile = v.logFile
		}
	})
}
