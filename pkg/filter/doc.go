// Package filter implements the query-string filter grammar.
//
// A filter is written as "<op>.<value>" and applies to the column named by the
// query parameter key:
//
//	?age=gte.18&name=ilike.jo*&status=in.active,pending&deleted_at=is.null
//
// Parse builds the typed Filter, Render produces the quoted text form used in
// logs, and Predicate/ToSQL produce the placeholder form that is executed.
package filter
