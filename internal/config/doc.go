// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file (--config, or $XDG_CONFIG_HOME/tasktracker/config.toml)
// 3. Environment variables (TASKTRACKER_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence. A
// missing default config file is not an error; a missing --config file is.
package config
