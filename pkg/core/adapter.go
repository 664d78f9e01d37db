package core

import (
	"database/sql"
	"time"
)

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	// Timeout bounds connection establishment and the initial ping.
	Timeout time.Duration
	// Options are driver connection options (e.g. sslmode).
	Options map[string]string
	// Params holds adapter-specific settings decoded by each adapter.
	Params map[string]any
}

// Rows wraps sql.Rows to provide a consistent interface.
type Rows struct {
	*sql.Rows
}
