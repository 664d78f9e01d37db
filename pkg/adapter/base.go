package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/autorest/pkg/core"
)

// ErrNotConnected is returned by adapter calls made before Connect.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and catalog discovery implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string, args ...any) (int64, error) {
	if b.DB == nil {
		return 0, ErrNotConnected
	}
	res, err := b.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute SQL: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		// Some drivers do not report affected rows.
		return 0, nil
	}
	return n, nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string, args ...any) (*core.Rows, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// OpenAndPing opens driverName/dsn and pings it within cfg.Timeout, then
// stores the pool on b.
func (b *BaseSQLAdapter) OpenAndPing(ctx context.Context, driverName, dsn string, cfg core.AdapterConfig) error {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driverName, err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s: %w", driverName, err)
	}

	b.DB = db
	b.Cfg = cfg
	return nil
}

// DiscoverCommon runs a catalog query and builds a registry from its rows.
// The query must return, ordered by table then ordinal position:
//
//	table_name, column_name, data_type, is_nullable ('YES'/'NO'),
//	column_default, character_maximum_length, is_updatable ('YES'/'NO')
func (b *BaseSQLAdapter) DiscoverCommon(ctx context.Context, query string, opts core.RegistryOptions, args ...any) (*core.Registry, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []*core.Table
	byName := make(map[string]*core.Table)
	for rows.Next() {
		var (
			tableName, name, dataType string
			nullable, updatable       string
			def                       sql.NullString
			maxLen                    sql.NullInt64
		)
		if err := rows.Scan(&tableName, &name, &dataType, &nullable, &def, &maxLen, &updatable); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}

		t, ok := byName[tableName]
		if !ok {
			t = core.NewTable(tableName)
			byName[tableName] = t
			tables = append(tables, t)
		}

		col := &core.Column{
			Name:        name,
			IsNullable:  nullable == "YES",
			DataType:    core.ParseTypeTag(dataType),
			IsUpdatable: updatable == "YES",
		}
		if def.Valid {
			col.Default = &def.String
		}
		if maxLen.Valid {
			n := int(maxLen.Int64)
			col.MaxLength = &n
		}
		if col.DataType == core.TypeUnknown && b.Logger != nil {
			b.Logger.Debug("column type has no conversion",
				slog.String("table", tableName),
				slog.String("column", name),
				slog.String("type", dataType))
		}
		t.AddColumn(col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	return core.NewRegistry(tables, opts)
}
