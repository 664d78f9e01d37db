package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/autorest/pkg/convert"
	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/statement"
)

// decoders resolves one decoder per column name. Columns without a
// conversion use convert.Fallback and are logged once per statement.
func (e *Engine) decoders(t *core.Table, columns []string) ([]convert.Decoder, error) {
	out := make([]convert.Decoder, len(columns))
	for i, name := range columns {
		col, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("column %q missing from table %q", name, t.Name)
		}
		d, err := convert.DecoderFor(col)
		if errors.Is(err, convert.ErrUnsupportedType) {
			e.logger.Warn("unsupported column type, values rendered as empty strings",
				slog.String("table", t.Name),
				slog.String("column", name))
			d = convert.Fallback
		} else if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// collect turns result rows into one map per row keyed by column name.
func (e *Engine) collect(rows *core.Rows, st *statement.Statement) ([]map[string]any, error) {
	decs, err := e.decoders(st.Table, st.Columns)
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	dests := make([]any, len(decs))
	for rows.Next() {
		for i, d := range decs {
			dests[i] = d.Dest()
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(decs))
		for i, d := range decs {
			row[st.Columns[i]] = d.Value(dests[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// collectReturning reads the single RETURNING column of a write.
func (e *Engine) collectReturning(rows *core.Rows, st *statement.Statement) ([]any, error) {
	decs, err := e.decoders(st.Table, []string{st.Returning})
	if err != nil {
		return nil, err
	}
	d := decs[0]

	var ids []any
	for rows.Next() {
		dest := d.Dest()
		if err := rows.Scan(dest); err != nil {
			return nil, fmt.Errorf("failed to scan returned id: %w", err)
		}
		ids = append(ids, d.Value(dest))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating returned ids: %w", err)
	}
	return ids, nil
}
