// Package statement assembles parameterized SQL statements for table
// requests. Every column referenced by a request is validated against the
// registry before a statement is produced.
package statement

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/leapstack-labs/autorest/pkg/convert"
	"github.com/leapstack-labs/autorest/pkg/core"
)

// ReturningColumn is returned by inserts and updates on tables that have it.
const ReturningColumn = "id"

// Statement is an executable SQL template with its ordered arguments.
type Statement struct {
	Method core.Method
	SQL    string
	Args   []any
	Table  *core.Table
	// Columns lists the selected columns for reads and the written columns
	// for inserts and updates.
	Columns []string
	// Returning is the column named in RETURNING, or empty.
	Returning string

	// text is SQL with "?" placeholders, used by Inline.
	text string
}

// Inline returns the statement with every placeholder replaced by the quoted
// argument. The result is for logs and dry runs only.
func (s *Statement) Inline() string {
	if s.text == "" {
		return s.SQL
	}
	var b strings.Builder
	i := 0
	for _, r := range s.text {
		if r == '?' && i < len(s.Args) {
			b.WriteString(convert.Quote(s.Args[i]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Builder assembles statements against a registry.
type Builder struct {
	Registry    *core.Registry
	Placeholder sq.PlaceholderFormat
}

// New returns a builder. A nil placeholder format defaults to "?".
func New(registry *core.Registry, placeholder sq.PlaceholderFormat) *Builder {
	if placeholder == nil {
		placeholder = sq.Question
	}
	return &Builder{Registry: registry, Placeholder: placeholder}
}

func (b *Builder) placeholder() sq.PlaceholderFormat {
	if b.Placeholder == nil {
		return sq.Question
	}
	return b.Placeholder
}

// finish renders a squirrel builder twice: with "?" for Inline, then with the
// builder's placeholder format for execution.
func (b *Builder) finish(st *Statement, s sq.Sqlizer) (*Statement, error) {
	text, args, err := s.ToSql()
	if err != nil {
		return nil, core.ErrInternal(err)
	}
	sql, err := b.placeholder().ReplacePlaceholders(text)
	if err != nil {
		return nil, core.ErrInternal(err)
	}
	st.text = text
	st.SQL = sql
	st.Args = args
	return st, nil
}

func qualify(table, column string) string {
	return table + "." + column
}
