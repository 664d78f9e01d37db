package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/autorest/internal/testutil"
	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/convert"
	"github.com/leapstack-labs/autorest/pkg/core"
)

func connect(t *testing.T, cfg core.AdapterConfig) *Adapter {
	t.Helper()
	adp := New(testutil.NewTestLogger(t))
	require.NoError(t, adp.Connect(context.Background(), cfg))
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params *Params
		want   string
	}{
		{"plain", "app.db", &Params{}, "app.db"},
		{
			"pragmas sorted",
			"app.db",
			&Params{Pragmas: map[string]string{"journal_mode": "wal", "busy_timeout": "5000"}},
			"file:app.db?_pragma=busy_timeout%285000%29&_pragma=journal_mode%28wal%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.path, tt.params))
		})
	}
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams(map[string]any{"pragmas": map[string]any{"busy_timeout": 5000}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"busy_timeout": "5000"}, p.Pragmas)

	_, err = ParseParams(map[string]any{"extensions": []any{"x"}})
	assert.Error(t, err)
}

func TestAdapter_ConnectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	adp := connect(t, core.AdapterConfig{
		Path:    path,
		Timeout: time.Second,
		Params:  map[string]any{"pragmas": map[string]any{"foreign_keys": "1"}},
	})

	rows, err := adp.Query(context.Background(), "PRAGMA foreign_keys")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()
	require.True(t, rows.Next())
	var fk int
	require.NoError(t, rows.Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)

	_, err = adp.DiscoverSchema(ctx, core.RegistryOptions{})
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
}

func TestAdapter_DiscoverSchema(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{})

	_, err := adp.Exec(ctx, `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name VARCHAR(40) NOT NULL,
			nickname TEXT,
			active BOOLEAN DEFAULT 1,
			balance REAL,
			blob_data BLOB
		)
	`)
	require.NoError(t, err)
	_, err = adp.Exec(ctx, `CREATE VIEW active_users AS SELECT id, name FROM users WHERE active`)
	require.NoError(t, err)

	reg, err := adp.DiscoverSchema(ctx, core.RegistryOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"active_users", "users"}, reg.TableNames())

	users, err := reg.Lookup("users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "nickname", "active", "balance", "blob_data"}, users.ColumnNames())

	tests := []struct {
		column   string
		tag      core.TypeTag
		nullable bool
	}{
		{"id", core.TypeInteger, false},
		{"name", core.TypeVarText, false},
		{"nickname", core.TypeVarText, true},
		{"active", core.TypeBoolean, true},
		{"balance", core.TypeReal, true},
		{"blob_data", core.TypeUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			c, ok := users.Column(tt.column)
			require.True(t, ok)
			assert.Equal(t, tt.tag, c.DataType)
			assert.Equal(t, tt.nullable, c.IsNullable)
			assert.True(t, c.IsUpdatable)
		})
	}

	active, _ := users.Column("active")
	require.NotNil(t, active.Default)
	assert.Equal(t, "1", *active.Default)

	view, err := reg.Lookup("active_users")
	require.NoError(t, err)
	viewID, _ := view.Column("id")
	assert.False(t, viewID.IsUpdatable)
}

func TestAdapter_DecodesRows(t *testing.T) {
	ctx := context.Background()
	adp := connect(t, core.AdapterConfig{})

	_, err := adp.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, label TEXT, price REAL, sold BOOLEAN)`)
	require.NoError(t, err)

	rows, err := adp.Query(ctx, "INSERT INTO items (label,price,sold) VALUES (?,?,?) RETURNING id", "pen", 1.5, true)
	require.NoError(t, err)
	require.True(t, rows.Next())
	require.NoError(t, rows.Close())

	reg, err := adp.DiscoverSchema(ctx, core.RegistryOptions{})
	require.NoError(t, err)
	items, err := reg.Lookup("items")
	require.NoError(t, err)

	rows, err = adp.Query(ctx, "SELECT items.id, items.label, items.price, items.sold FROM items WHERE items.id = ?", "1")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	names := items.ColumnNames()
	decoders := make([]convert.Decoder, len(names))
	dests := make([]any, len(names))
	for i, n := range names {
		col, _ := items.Column(n)
		decoders[i], err = convert.DecoderFor(col)
		require.NoError(t, err)
		dests[i] = decoders[i].Dest()
	}

	require.True(t, rows.Next())
	require.NoError(t, rows.Scan(dests...))
	assert.Equal(t, int64(1), decoders[0].Value(dests[0]))
	assert.Equal(t, "pen", decoders[1].Value(dests[1]))
	assert.Equal(t, 1.5, decoders[2].Value(dests[2]))
	assert.Equal(t, true, decoders[3].Value(dests[3]))
}

func TestAdapter_Registry(t *testing.T) {
	factory, ok := adapter.Get("sqlite")
	require.True(t, ok)

	adp, ok := factory(nil).(*Adapter)
	require.True(t, ok)
	assert.Equal(t, "sqlite", adp.DialectName())
}
