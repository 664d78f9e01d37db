// Package duckdb provides a DuckDB database adapter for AutoREST.
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/core"
)

const defaultSchema = "main"

// DuckDB's information_schema has no udt_name or is_updatable; data_type
// is the DuckDB type name (INTEGER, VARCHAR, TIMESTAMP WITH TIME ZONE...).
const discoverQuery = `
	SELECT
		table_name,
		column_name,
		data_type,
		is_nullable,
		column_default,
		character_maximum_length,
		'YES'
	FROM information_schema.columns
	WHERE table_schema = ?
	ORDER BY table_name, ordinal_position
`

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
	params *Params
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
		params:         &Params{},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "duckdb"
}

// Placeholder returns the ? bind style.
func (a *Adapter) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	a.Logger.Debug("connecting to duckdb", slog.String("path", path))

	if err := a.OpenAndPing(ctx, "duckdb", dsn(path), cfg); err != nil {
		return err
	}
	a.params = params

	// An in-memory database lives in one connection.
	if path == ":memory:" {
		a.DB.SetMaxOpenConns(1)
	}

	if err := a.applyParams(ctx, params); err != nil {
		_ = a.Close()
		a.DB = nil
		return err
	}
	return nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return ""
	}
	return path
}

func (a *Adapter) applyParams(ctx context.Context, p *Params) error {
	for _, ext := range p.Extensions {
		if !identifier.MatchString(ext) {
			return fmt.Errorf("invalid duckdb extension name %q", ext)
		}
		a.Logger.Debug("loading duckdb extension", slog.String("extension", ext))
		for _, stmt := range []string{"INSTALL " + ext, "LOAD " + ext} {
			if _, err := a.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to load extension %s: %w", ext, err)
			}
		}
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !identifier.MatchString(k) {
			return fmt.Errorf("invalid duckdb setting name %q", k)
		}
		stmt := fmt.Sprintf("SET %s = %s", k, quoteLiteral(p.Settings[k]))
		if _, err := a.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", k, err)
		}
	}
	return nil
}

func quoteLiteral(v string) string {
	out := make([]byte, 0, len(v)+2)
	out = append(out, '\'')
	for i := 0; i < len(v); i++ {
		if v[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, v[i])
	}
	return string(append(out, '\''))
}

// DiscoverSchema reads information_schema for the configured schema.
func (a *Adapter) DiscoverSchema(ctx context.Context, opts core.RegistryOptions) (*core.Registry, error) {
	schema := a.Cfg.Schema
	if a.params != nil && a.params.Schema != "" {
		schema = a.params.Schema
	}
	if schema == "" {
		schema = defaultSchema
	}
	return a.DiscoverCommon(ctx, discoverQuery, opts, schema)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
