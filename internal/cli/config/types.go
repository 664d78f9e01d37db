// Package config provides configuration management for the AutoREST CLI.
//
// This package extends the shared configuration types from internal/config
// with CLI-specific fields and functionality. The shared types are
// re-exported here via type aliases for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/autorest/internal/config"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// TablesConfig is an alias for the shared table filter.
type TablesConfig = sharedcfg.TablesConfig

// Config holds all CLI configuration options.
type Config struct {
	Addr           string        `koanf:"addr"`
	LogLevel       string        `koanf:"log_level"`
	LogFormat      string        `koanf:"log_format"`
	Verbose        bool          `koanf:"verbose"`
	OutputFormat   string        `koanf:"output"`
	Watch          bool          `koanf:"watch"`
	DisableMetrics bool          `koanf:"disable_metrics"`
	JournalPath    string        `koanf:"journal_path"`
	Target         *TargetConfig `koanf:"target"`
	Tables         *TablesConfig `koanf:"tables"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultAddr        = "0.0.0.0:1492"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=json
	DefaultJournalPath = ".autorest/journal.db"
)
