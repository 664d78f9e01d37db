package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/autorest/internal/testutil"
	"github.com/leapstack-labs/autorest/pkg/adapter"
	"github.com/leapstack-labs/autorest/pkg/core"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
		{
			name: "timeout and extra options",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				Timeout:  5 * time.Second,
				Options:  map[string]string{"application_name": "autorest", "search_path": "api,public"},
			},
			expected: "host=db.example.com port=5433 dbname=analytics sslmode=disable connect_timeout=5 application_name=autorest search_path=api,public",
		},
		{
			name: "sub-second timeout rounds up",
			config: adapter.Config{
				Database: "mydb",
				Timeout:  200 * time.Millisecond,
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable connect_timeout=1",
		},
		{
			name: "password with spaces is quoted",
			config: adapter.Config{
				Database: "mydb",
				Password: "it's secret",
			},
			expected: `host=localhost port=5432 dbname=mydb sslmode=disable password='it\'s secret'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp)
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "postgres", adp.DialectName())

	sql, err := adp.Placeholder().ReplacePlaceholders("a = ? AND b = ?")
	require.NoError(t, err)
	assert.Equal(t, "a = $1 AND b = $2", sql)
	assert.Equal(t, sq.Dollar, adp.Placeholder())
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Exec(ctx, "DELETE FROM users")
				return err
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "discover without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.DiscoverSchema(ctx, core.RegistryOptions{})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			require.ErrorIs(t, err, adapter.ErrNotConnected)
		})
	}
}

func TestAdapter_DiscoverSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{
		"table_name", "column_name", "udt_name", "is_nullable",
		"column_default", "character_maximum_length", "is_updatable",
	}).
		AddRow("customers", "id", "int4", "NO", "nextval('customers_id_seq'::regclass)", nil, "YES").
		AddRow("customers", "email", "varchar", "NO", nil, int64(255), "YES").
		AddRow("customers", "country", "bpchar", "YES", nil, int64(2), "YES").
		AddRow("customers", "created_at", "timestamptz", "NO", "now()", nil, "YES")
	mock.ExpectQuery("FROM information_schema.columns").WithArgs("api").WillReturnRows(rows)

	adp := New(testutil.NewTestLogger(t))
	adp.DB = db
	adp.Cfg = adapter.Config{Schema: "api"}

	reg, err := adp.DiscoverSchema(context.Background(), core.RegistryOptions{})
	require.NoError(t, err)

	customers, err := reg.Lookup("customers")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "email", "country", "created_at"}, customers.ColumnNames())

	country, _ := customers.Column("country")
	assert.Equal(t, core.TypeFixedText, country.DataType)
	created, _ := customers.Column("created_at")
	assert.Equal(t, core.TypeTimestamp, created.DataType)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_DiscoverSchema_DefaultSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("public").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g"}))

	adp := New(nil)
	adp.DB = db

	reg, err := adp.DiscoverSchema(context.Background(), core.RegistryOptions{})
	require.NoError(t, err)
	assert.Zero(t, reg.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("postgres"))

	factory, ok := adapter.Get("postgres")
	require.True(t, ok)

	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok, "factory should return *Adapter")
	assert.Equal(t, "postgres", pg.DialectName())
}

func TestAdapter_Close(t *testing.T) {
	assert.NoError(t, New(nil).Close())
}
