package statement

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/filter"
	"github.com/leapstack-labs/autorest/pkg/query"
)

// Select builds a read statement:
//
//	SELECT t.c1, t.c2 FROM t [WHERE p1 AND p2] [ORDER BY t.c ASC] [LIMIT n] [OFFSET m]
//
// The select list is validated first, then filters, then order, limit and offset.
func (b *Builder) Select(table string, params query.Params) (*Statement, error) {
	t, err := b.Registry.Lookup(table)
	if err != nil {
		return nil, err
	}

	columns := params.Select()
	if columns == nil {
		columns = t.ColumnNames()
	}
	if err := checkColumns(t, columns...); err != nil {
		return nil, err
	}

	filters, err := tableFilters(t, params)
	if err != nil {
		return nil, err
	}

	order := params.Order()
	for _, o := range order {
		if err := checkColumns(t, o.Column); err != nil {
			return nil, err
		}
	}

	limit, hasLimit, err := params.Limit()
	if err != nil {
		return nil, err
	}
	offset, hasOffset, err := params.Offset()
	if err != nil {
		return nil, err
	}

	selected := make([]string, len(columns))
	for i, c := range columns {
		selected[i] = qualify(t.Name, c)
	}

	q := sq.Select(selected...).From(t.Name)
	for _, f := range filters {
		q = q.Where(filter.NewPredicate(f, t.Name))
	}
	for _, o := range order {
		q = q.OrderBy(qualify(t.Name, o.Column) + " " + o.Direction.String())
	}
	if hasLimit {
		q = q.Limit(limit)
	}
	if hasOffset {
		q = q.Offset(offset)
	}

	return b.finish(&Statement{Method: core.MethodGet, Table: t, Columns: columns}, q)
}

// Delete builds DELETE FROM t [WHERE ...]. Reserved keys are ignored.
func (b *Builder) Delete(table string, params query.Params) (*Statement, error) {
	t, err := b.Registry.Lookup(table)
	if err != nil {
		return nil, err
	}

	filters, err := tableFilters(t, params)
	if err != nil {
		return nil, err
	}

	q := sq.Delete(t.Name)
	for _, f := range filters {
		q = q.Where(filter.NewPredicate(f, ""))
	}

	return b.finish(&Statement{Method: core.MethodDelete, Table: t}, q)
}

func tableFilters(t *core.Table, params query.Params) ([]filter.Filter, error) {
	filters, err := params.Filters()
	if err != nil {
		return nil, err
	}
	for _, f := range filters {
		if err := checkColumns(t, f.Column()); err != nil {
			return nil, err
		}
	}
	return filters, nil
}

func checkColumns(t *core.Table, columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return core.ErrUnknownColumn(c, t.Name)
		}
	}
	return nil
}
