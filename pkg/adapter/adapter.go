// Package adapter defines the contract between the request engine and a
// database. Concrete adapters live in pkg/adapters and register themselves
// with this package in init().
package adapter

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/autorest/pkg/core"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter connects to a database, discovers its tables and runs statements.
type Adapter interface {
	// Connect opens and pings the database. cfg.Timeout, when set, bounds
	// the attempt.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec runs a statement that returns no rows and reports the number of
	// affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query runs a statement that returns rows. The caller closes them.
	Query(ctx context.Context, sql string, args ...any) (*Rows, error)

	// DiscoverSchema reads the catalog and builds a registry of the tables
	// allowed by opts.
	DiscoverSchema(ctx context.Context, opts core.RegistryOptions) (*core.Registry, error)

	// Placeholder is the bind parameter style of the database.
	Placeholder() sq.PlaceholderFormat

	// DialectName names the database, e.g. "postgres".
	DialectName() string
}
