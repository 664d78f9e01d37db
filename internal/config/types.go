// Package config provides the shared configuration types for AutoREST: the
// database target and the table filter. It is decoupled from CLI concerns
// so the server can reload the table filter on its own.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/core"
)

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, duckdb, sqlite

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema  string        `koanf:"schema"`
	Timeout time.Duration `koanf:"timeout"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, SQLite pragmas)
	Params map[string]any `koanf:"params"`
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if t.Timeout < 0 {
		return fmt.Errorf("target timeout must not be negative, got %s", t.Timeout)
	}
	return nil
}

// AdapterConfig converts the target to the adapter connection settings.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	return core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Timeout:  t.Timeout,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// TablesConfig restricts which tables are served.
type TablesConfig struct {
	Include []string `koanf:"include"`
	Exclude []string `koanf:"exclude"`
}

// RegistryOptions converts the table filter for schema discovery.
// A nil receiver serves every table.
func (t *TablesConfig) RegistryOptions() core.RegistryOptions {
	if t == nil {
		return core.RegistryOptions{}
	}
	return core.RegistryOptions{Include: t.Include, Exclude: t.Exclude}
}

// Validate rejects configurations that both include and exclude tables.
func (t *TablesConfig) Validate() error {
	if err := t.RegistryOptions().Validate(); err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	return nil
}

// ProjectConfig is the subset of the configuration file needed to connect
// and discover the schema.
type ProjectConfig struct {
	Target *TargetConfig `koanf:"target"`
	Tables *TablesConfig `koanf:"tables"`
}
