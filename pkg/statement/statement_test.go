package statement

import (
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/query"
)

func testRegistry(t *testing.T) *core.Registry {
	t.Helper()
	users := core.NewTable("users",
		&core.Column{Name: "id", DataType: core.TypeInteger},
		&core.Column{Name: "name", DataType: core.TypeVarText, IsNullable: true},
		&core.Column{Name: "age", DataType: core.TypeInteger, IsNullable: true},
	)
	logs := core.NewTable("logs",
		&core.Column{Name: "message", DataType: core.TypeVarText},
		&core.Column{Name: "level", DataType: core.TypeSmallInt},
	)
	reg, err := core.NewRegistry([]*core.Table{users, logs}, core.RegistryOptions{})
	require.NoError(t, err)
	return reg
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		params   query.Params
		wantSQL  string
		wantArgs []any
		wantCols []string
	}{
		{
			name:     "all columns in table order",
			params:   query.Params{},
			wantSQL:  "SELECT users.id, users.name, users.age FROM users",
			wantCols: []string{"id", "name", "age"},
		},
		{
			name:     "select list",
			params:   query.Params{"select": "name"},
			wantSQL:  "SELECT users.name FROM users",
			wantCols: []string{"name"},
		},
		{
			name:     "filters joined with AND in key order",
			params:   query.Params{"select": "id", "name": "like.a*", "age": "gt.30"},
			wantSQL:  "SELECT users.id FROM users WHERE users.age > $1 AND users.name LIKE $2",
			wantArgs: []any{"30", "a%"},
			wantCols: []string{"id"},
		},
		{
			name:     "order limit offset",
			params:   query.Params{"select": "id", "order": "age.desc,name", "limit": "10", "offset": "5"},
			wantSQL:  "SELECT users.id FROM users ORDER BY users.age DESC, users.name ASC LIMIT 10 OFFSET 5",
			wantCols: []string{"id"},
		},
		{
			name:     "in and not",
			params:   query.Params{"select": "id", "id": "not.in.1,2"},
			wantSQL:  "SELECT users.id FROM users WHERE NOT (users.id IN ($1, $2))",
			wantArgs: []any{"1", "2"},
			wantCols: []string{"id"},
		},
		{
			name:     "unparsable order dropped",
			params:   query.Params{"select": "id", "order": "age.up"},
			wantSQL:  "SELECT users.id FROM users",
			wantCols: []string{"id"},
		},
	}

	b := New(testRegistry(t), sq.Dollar)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := b.Select("users", tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, st.SQL)
			if tt.wantArgs == nil {
				assert.Empty(t, st.Args)
			} else {
				assert.Equal(t, tt.wantArgs, st.Args)
			}
			assert.Equal(t, tt.wantCols, st.Columns)
			assert.Equal(t, core.MethodGet, st.Method)
		})
	}
}

func TestSelect_AndSeparator(t *testing.T) {
	b := New(testRegistry(t), nil)
	st, err := b.Select("users", query.Params{"select": "id", "age": "gte.18", "name": "eq.bob"})
	require.NoError(t, err)

	assert.Contains(t, st.SQL, " AND ")
	assert.NotContains(t, st.SQL, "?AND")
	assert.Equal(t, "SELECT users.id FROM users WHERE users.age >= ? AND users.name = ?", st.SQL)
	assert.Equal(t, "SELECT users.id FROM users WHERE users.age >= '18' AND users.name = 'bob'", st.Inline())
}

func TestSelect_Errors(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		params   query.Params
		wantKind core.Kind
		wantMsg  string
	}{
		{"unknown table", "nope", query.Params{"x": "bogus.1", "limit": "abc"}, core.KindUnknownModel, "table 'nope' do not exist"},
		{"unknown select column", "users", query.Params{"select": "id,ghost"}, core.KindUnknownColumn, "column 'ghost' do not exist for table 'users'"},
		{"select checked before filters", "users", query.Params{"select": "ghost", "age": "bogus.1"}, core.KindUnknownColumn, "ghost"},
		{"bad filter", "users", query.Params{"age": "bogus.1"}, core.KindInvalidFilter, "bogus"},
		{"filter on missing column", "users", query.Params{"email": "eq.x"}, core.KindUnknownColumn, "email"},
		{"order on missing column", "users", query.Params{"order": "email.asc"}, core.KindUnknownColumn, "email"},
		{"bad limit", "users", query.Params{"limit": "ten"}, core.KindInvalidFilterType, "limit"},
		{"bad offset", "users", query.Params{"offset": "-3"}, core.KindInvalidFilterType, "offset"},
	}

	b := New(testRegistry(t), sq.Dollar)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := b.Select(tt.table, tt.params)
			require.Error(t, err)
			assert.Nil(t, st)
			assert.Equal(t, tt.wantKind, core.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDelete(t *testing.T) {
	b := New(testRegistry(t), sq.Dollar)

	st, err := b.Delete("users", query.Params{"id": "eq.3", "limit": "1"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE id = $1", st.SQL)
	assert.Equal(t, []any{"3"}, st.Args)

	st, err = b.Delete("users", query.Params{})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users", st.SQL)

	_, err = b.Delete("users", query.Params{"ghost": "eq.1"})
	assert.Equal(t, core.KindUnknownColumn, core.KindOf(err))
}

func TestInsert(t *testing.T) {
	b := New(testRegistry(t), sq.Dollar)

	st, err := b.Insert("users", `{"name": "ann", "age": 42}`)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (age,name) VALUES ($1,$2) RETURNING id", st.SQL)
	assert.Equal(t, []any{int64(42), "ann"}, st.Args)
	assert.Equal(t, []string{"age", "name"}, st.Columns)
	assert.Equal(t, "id", st.Returning)
	assert.Equal(t, "INSERT INTO users (age,name) VALUES (42,'ann') RETURNING id", st.Inline())
}

func TestInsert_IntegerRoundTrip(t *testing.T) {
	b := New(testRegistry(t), nil)

	st, err := b.Insert("users", `{"age": 9007199254740993}`)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(9007199254740993)}, st.Args)
	assert.Contains(t, st.Inline(), "9007199254740993")
}

func TestInsert_NoReturningWithoutID(t *testing.T) {
	b := New(testRegistry(t), nil)

	st, err := b.Insert("logs", `{"message": "hi", "level": null}`)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO logs (level,message) VALUES (?,?)", st.SQL)
	assert.Equal(t, []any{nil, "hi"}, st.Args)
	assert.Empty(t, st.Returning)
}

func TestWrite_BodyErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind core.Kind
	}{
		{"empty", "", core.KindInvalidInput},
		{"not json", "{oops", core.KindInvalidInput},
		{"array", `[{"name": "a"}]`, core.KindInvalidInput},
		{"scalar", `"name"`, core.KindInvalidInput},
		{"empty object", `{}`, core.KindInvalidInput},
		{"trailing value", `{"name": "a"} {"name": "b"}`, core.KindInvalidInput},
		{"nested value", `{"name": ["a"]}`, core.KindInvalidInput},
		{"unknown column", `{"name": "a", "ghost": 1}`, core.KindUnknownColumn},
	}

	b := New(testRegistry(t), sq.Dollar)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Insert("users", tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))

			_, err = b.Update("users", query.Params{}, tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, core.KindOf(err))
		})
	}
}

func TestUpdate(t *testing.T) {
	b := New(testRegistry(t), sq.Dollar)

	st, err := b.Update("users", query.Params{"id": "eq.7"}, `{"name": "bo", "age": 3}`)
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET age = $1, name = $2 WHERE id = $3 RETURNING id", st.SQL)
	assert.Equal(t, []any{int64(3), "bo", "7"}, st.Args)
	assert.Equal(t, core.MethodPatch, st.Method)
}

func TestUpdate_UnknownModel(t *testing.T) {
	b := New(testRegistry(t), nil)
	_, err := b.Update("ghosts", query.Params{}, `{"a": 1}`)
	assert.Equal(t, core.KindUnknownModel, core.KindOf(err))
}

func TestInline_QuestionMarkInValue(t *testing.T) {
	b := New(testRegistry(t), sq.Dollar)
	st, err := b.Select("users", query.Params{"select": "id", "name": "eq.who?"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(st.Inline(), "users.name = 'who?'"))
}
