package config

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/autorest/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/autorest/internal/config"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Target == nil {
		return fmt.Errorf("target is required\nHint: add a target section to %s", sharedcfg.ConfigFileName)
	}
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	if err := c.Tables.Validate(); err != nil {
		return err
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, expected text or json", c.LogFormat)
	}
	return nil
}

// ParseLevel parses a log level name (debug, info, warn, error).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
