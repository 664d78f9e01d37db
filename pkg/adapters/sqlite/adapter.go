// Package sqlite provides a SQLite database adapter for AutoREST, backed by
// the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/core"
)

// discoverQuery lists columns of every user table and view, shaped like
// information_schema.columns.
const discoverQuery = `
	SELECT
		m.name,
		p.name,
		p.type,
		CASE WHEN p."notnull" = 0 AND p.pk = 0 THEN 'YES' ELSE 'NO' END,
		p.dflt_value,
		NULL,
		CASE WHEN m.type = 'table' THEN 'YES' ELSE 'NO' END
	FROM sqlite_schema AS m
	JOIN pragma_table_info(m.name) AS p
	WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'
	ORDER BY m.name, p.cid
`

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
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
	return "sqlite"
}

// Placeholder returns the ? bind style.
func (a *Adapter) Placeholder() sq.PlaceholderFormat {
	return sq.Question
}

// Connect opens the database file at cfg.Path, or an in-memory database when
// the path is empty or ":memory:".
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	if err := a.OpenAndPing(ctx, "sqlite", buildDSN(path, params), cfg); err != nil {
		return err
	}
	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		a.DB.SetMaxOpenConns(1)
	}
	return nil
}

// buildDSN appends pragmas as _pragma query parameters, sorted by name.
func buildDSN(path string, p *Params) string {
	if len(p.Pragmas) == 0 {
		return path
	}
	names := make([]string, 0, len(p.Pragmas))
	for k := range p.Pragmas {
		names = append(names, k)
	}
	sort.Strings(names)

	q := url.Values{}
	for _, k := range names {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, p.Pragmas[k]))
	}
	return "file:" + path + "?" + q.Encode()
}

// DiscoverSchema reads sqlite_schema and pragma_table_info.
func (a *Adapter) DiscoverSchema(ctx context.Context, opts core.RegistryOptions) (*core.Registry, error) {
	return a.DiscoverCommon(ctx, discoverQuery, opts)
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
