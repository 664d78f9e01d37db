package statement

import (
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/autorest/pkg/convert"
	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/filter"
	"github.com/leapstack-labs/autorest/pkg/query"
)

// Insert builds INSERT INTO t (a, b) VALUES (?, ?) [RETURNING id] from a
// JSON object body.
func (b *Builder) Insert(table, body string) (*Statement, error) {
	t, err := b.Registry.Lookup(table)
	if err != nil {
		return nil, err
	}

	columns, values, err := decodeBody(t, body)
	if err != nil {
		return nil, err
	}

	q := sq.Insert(t.Name).Columns(columns...).Values(values...)
	st := &Statement{Method: core.MethodPost, Table: t, Columns: columns}
	if t.HasColumn(ReturningColumn) {
		q = q.Suffix("RETURNING " + ReturningColumn)
		st.Returning = ReturningColumn
	}

	return b.finish(st, q)
}

// Update builds UPDATE t SET a = ?, b = ? [WHERE ...] [RETURNING id] from a
// JSON object body and the request filters.
func (b *Builder) Update(table string, params query.Params, body string) (*Statement, error) {
	t, err := b.Registry.Lookup(table)
	if err != nil {
		return nil, err
	}

	columns, values, err := decodeBody(t, body)
	if err != nil {
		return nil, err
	}

	filters, err := tableFilters(t, params)
	if err != nil {
		return nil, err
	}

	q := sq.Update(t.Name)
	for i, c := range columns {
		q = q.Set(c, values[i])
	}
	for _, f := range filters {
		q = q.Where(filter.NewPredicate(f, ""))
	}

	st := &Statement{Method: core.MethodPatch, Table: t, Columns: columns}
	if t.HasColumn(ReturningColumn) {
		q = q.Suffix("RETURNING " + ReturningColumn)
		st.Returning = ReturningColumn
	}

	return b.finish(st, q)
}

// decodeBody validates a JSON object body and returns its keys, sorted, with
// the matching bind values.
func decodeBody(t *core.Table, body string) ([]string, []any, error) {
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, core.ErrInvalidInput("empty body")
		}
		return nil, nil, core.ErrInvalidInput("body is not valid json")
	}
	if dec.More() {
		return nil, nil, core.ErrInvalidInput("body must contain a single json object")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, core.ErrInvalidInput("body must be a json object")
	}
	if len(obj) == 0 {
		return nil, nil, core.ErrInvalidInput("body must contain at least one column")
	}

	columns := make([]string, 0, len(obj))
	for k := range obj {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	if err := checkColumns(t, columns...); err != nil {
		return nil, nil, err
	}

	values := make([]any, len(columns))
	for i, c := range columns {
		v, err := convert.ToSQL(obj[c])
		if err != nil {
			return nil, nil, err
		}
		values[i] = v.Arg
	}
	return columns, values, nil
}
