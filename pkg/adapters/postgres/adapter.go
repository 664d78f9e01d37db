// Package postgres provides a PostgreSQL database adapter for AutoREST.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver

	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/core"
)

const defaultSchema = "public"

// discoverQuery lists the columns of every table and view in a schema.
// udt_name is used instead of data_type so that e.g. int4 and bpchar are
// reported rather than the SQL standard spelling.
const discoverQuery = `
	SELECT
		c.table_name,
		c.column_name,
		c.udt_name,
		c.is_nullable,
		c.column_default,
		c.character_maximum_length,
		c.is_updatable
	FROM information_schema.columns c
	JOIN information_schema.tables t
		ON t.table_schema = c.table_schema AND t.table_name = c.table_name
	WHERE c.table_schema = $1 AND t.table_type IN ('BASE TABLE', 'VIEW')
	ORDER BY c.table_name, c.ordinal_position
`

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "postgres"
}

// Placeholder returns the $n bind style.
func (a *Adapter) Placeholder() sq.PlaceholderFormat {
	return sq.Dollar
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Logger.Debug("connecting to postgres",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.Duration("timeout", cfg.Timeout))

	return a.OpenAndPing(ctx, "pgx", buildPostgresDSN(cfg), cfg)
}

// DiscoverSchema reads information_schema for the configured schema.
func (a *Adapter) DiscoverSchema(ctx context.Context, opts core.RegistryOptions) (*core.Registry, error) {
	schema := a.Cfg.Schema
	if schema == "" {
		schema = defaultSchema
	}
	return a.DiscoverCommon(ctx, discoverQuery, opts, schema)
}

// buildPostgresDSN constructs a PostgreSQL key=value connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", quoteValue(cfg.Password))
	}
	if cfg.Timeout > 0 {
		secs := int(cfg.Timeout.Seconds())
		if secs < 1 {
			secs = 1
		}
		dsn += fmt.Sprintf(" connect_timeout=%d", secs)
	}

	// Remaining options are passed through in a stable order.
	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, quoteValue(cfg.Options[k]))
	}

	return dsn
}

// quoteValue quotes a DSN value when it contains spaces, quotes or backslashes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
