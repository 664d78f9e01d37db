// Package engine serves table requests: it assembles statements against the
// current schema registry, runs them through the database adapter and turns
// the results into JSON-ready values.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/query"
	"github.com/leapstack-labs/autorest/pkg/statement"
)

// Request is one table request.
type Request struct {
	Method core.Method
	Table  string
	Params query.Params
	Body   string
}

// Engine executes table requests.
type Engine struct {
	// Database adapter, created in New and connected lazily
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	tables   core.RegistryOptions
	registry *core.Handle
	logger   *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// AdapterConfig selects and configures the database adapter.
	AdapterConfig adapter.Config
	// Adapter overrides adapter creation from AdapterConfig.
	Adapter adapter.Adapter
	// Tables restricts the tables discovered from the database.
	Tables core.RegistryOptions
	// Registry is the schema in use; an empty handle is created when nil.
	Registry *core.Handle
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. The database is connected on first use.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := cfg.Tables.Validate(); err != nil {
		return nil, err
	}

	db := cfg.Adapter
	if db == nil {
		var err error
		db, err = adapter.NewAdapter(cfg.AdapterConfig, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create database adapter: %w", err)
		}
	}

	handle := cfg.Registry
	if handle == nil {
		handle = core.NewHandle(nil)
	}

	logger.Debug("initializing engine", "adapter_type", db.DialectName())

	return &Engine{
		db:       db,
		dbConfig: cfg.AdapterConfig,
		tables:   cfg.Tables,
		registry: handle,
		logger:   logger,
	}, nil
}

// ensureDBConnected lazily connects to the database.
func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	e.logger.Debug("connecting to database", "adapter_type", e.db.DialectName())

	if err := e.db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	e.dbConnected = true

	e.logger.Debug("database connected", "dialect", e.db.DialectName())
	return nil
}

// Discover reads the database catalog and swaps the resulting registry in.
// It is safe to call while requests are being served.
func (e *Engine) Discover(ctx context.Context) (*core.Registry, error) {
	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}

	e.dbMu.Lock()
	opts := e.tables
	e.dbMu.Unlock()

	reg, err := e.db.DiscoverSchema(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to discover schema: %w", err)
	}
	e.registry.Store(reg)

	e.logger.Info("schema loaded", slog.Int("tables", reg.Len()))
	return reg, nil
}

// SetTables replaces the include/exclude lists used by the next Discover.
func (e *Engine) SetTables(opts core.RegistryOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	e.dbMu.Lock()
	e.tables = opts
	e.dbMu.Unlock()
	return nil
}

// Registry returns the handle holding the current schema.
func (e *Engine) Registry() *core.Handle {
	return e.registry
}

// Close releases the database connection.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if !e.dbConnected {
		return nil
	}
	e.dbConnected = false
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (e *Engine) builder() *statement.Builder {
	return statement.New(e.registry.Load(), e.db.Placeholder())
}

// Explain assembles the statement for req without executing it.
func (e *Engine) Explain(req Request) (*statement.Statement, error) {
	b := e.builder()
	switch req.Method {
	case core.MethodGet:
		return b.Select(req.Table, req.Params)
	case core.MethodPost:
		return b.Insert(req.Table, req.Body)
	case core.MethodPut, core.MethodPatch:
		return b.Update(req.Table, req.Params, req.Body)
	case core.MethodDelete:
		return b.Delete(req.Table, req.Params)
	default:
		return nil, fmt.Errorf("unsupported method %s", req.Method)
	}
}

// Any dispatches req on its method.
func (e *Engine) Any(ctx context.Context, req Request) (any, error) {
	switch req.Method {
	case core.MethodGet:
		rows, err := e.Get(ctx, req)
		if err != nil {
			return nil, err
		}
		return rows, nil
	case core.MethodPost:
		return e.Post(ctx, req)
	case core.MethodPut:
		return e.Put(ctx, req)
	case core.MethodPatch:
		return e.Patch(ctx, req)
	case core.MethodDelete:
		return e.Delete(ctx, req)
	default:
		return nil, fmt.Errorf("unsupported method %s", req.Method)
	}
}

// Get reads rows. The result is never nil.
func (e *Engine) Get(ctx context.Context, req Request) ([]map[string]any, error) {
	st, err := e.builder().Select(req.Table, req.Params)
	if err != nil {
		return nil, err
	}
	e.logStatement(st)

	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, e.internal(st, err)
	}
	rows, err := e.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, e.internal(st, err)
	}
	defer func() { _ = rows.Close() }()

	out, err := e.collect(rows, st)
	if err != nil {
		return nil, e.internal(st, err)
	}
	return out, nil
}

// Post inserts one row and returns the ids reported by RETURNING, or nil.
func (e *Engine) Post(ctx context.Context, req Request) (any, error) {
	st, err := e.builder().Insert(req.Table, req.Body)
	if err != nil {
		return nil, err
	}
	return e.write(ctx, st)
}

// Put updates the rows matching the filters. It behaves like Patch.
func (e *Engine) Put(ctx context.Context, req Request) (any, error) {
	return e.Patch(ctx, req)
}

// Patch updates the rows matching the filters and returns their ids, or nil.
func (e *Engine) Patch(ctx context.Context, req Request) (any, error) {
	st, err := e.builder().Update(req.Table, req.Params, req.Body)
	if err != nil {
		return nil, err
	}
	return e.write(ctx, st)
}

// Delete removes the rows matching the filters. It returns no content.
func (e *Engine) Delete(ctx context.Context, req Request) (any, error) {
	st, err := e.builder().Delete(req.Table, req.Params)
	if err != nil {
		return nil, err
	}
	e.logStatement(st)

	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, e.internal(st, err)
	}
	n, err := e.db.Exec(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, e.internal(st, err)
	}
	e.logger.Debug("rows deleted", slog.String("table", st.Table.Name), slog.Int64("rows", n))
	return nil, nil
}

func (e *Engine) write(ctx context.Context, st *statement.Statement) (any, error) {
	e.logStatement(st)

	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, e.internal(st, err)
	}

	if st.Returning == "" {
		if _, err := e.db.Exec(ctx, st.SQL, st.Args...); err != nil {
			return nil, e.internal(st, err)
		}
		return nil, nil
	}

	rows, err := e.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, e.internal(st, err)
	}
	defer func() { _ = rows.Close() }()

	ids, err := e.collectReturning(rows, st)
	if err != nil {
		return nil, e.internal(st, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// internal logs an execution failure and hides it behind a generic error.
func (e *Engine) internal(st *statement.Statement, err error) error {
	var cerr *core.Error
	if errors.As(err, &cerr) {
		return cerr
	}
	e.logger.Error("statement failed",
		slog.String("method", st.Method.String()),
		slog.String("table", st.Table.Name),
		slog.String("sql", st.Inline()),
		slog.String("error", err.Error()))
	return core.ErrInternal(err)
}

func (e *Engine) logStatement(st *statement.Statement) {
	e.logger.Debug("executing statement",
		slog.String("method", st.Method.String()),
		slog.String("sql", st.Inline()))
}
