package core

import (
	"errors"
	"fmt"
)

// Kind classifies request-facing errors. The transport layer maps kinds to
// status codes, so the set is stable.
type Kind int

const (
	// KindInternal is an execution failure; its cause is never shown to callers.
	KindInternal Kind = iota
	// KindNotFound is a table missing at a lower layer.
	KindNotFound
	// KindUnknownModel is a table name absent from the registry.
	KindUnknownModel
	// KindUnknownColumn is a column reference absent from the table.
	KindUnknownColumn
	// KindInvalidFilter is an unrecognized filter operator.
	KindInvalidFilter
	// KindInvalidFilterSyntax is a malformed op.value expression.
	KindInvalidFilterSyntax
	// KindInvalidFilterType is a parameter that does not convert to its expected type.
	KindInvalidFilterType
	// KindInvalidColumnType is a column value that does not convert to its expected type.
	KindInvalidColumnType
	// KindInvalidInput is a malformed request body.
	KindInvalidInput
)

var kindNames = map[Kind]string{
	KindInternal:            "internal error",
	KindNotFound:            "table not found",
	KindUnknownModel:        "unknown model",
	KindUnknownColumn:       "unknown column",
	KindInvalidFilter:       "invalid or unknown filter",
	KindInvalidFilterSyntax: "invalid filter syntax",
	KindInvalidFilterType:   "invalid type for filter",
	KindInvalidColumnType:   "invalid type for column",
	KindInvalidInput:        "invalid input",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsClientError reports whether the kind is caused by the request itself.
func (k Kind) IsClientError() bool {
	return k != KindInternal
}

// Error is the error type returned by every request-facing operation.
type Error struct {
	Kind Kind
	Msg  string
	// Cause is kept for logging only; Error() never includes it.
	Cause error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ErrNotFound reports a table missing at a lower layer.
func ErrNotFound(table string) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("table not found '%s'", table)}
}

// ErrUnknownModel reports a table name absent from the registry.
func ErrUnknownModel(table string) *Error {
	return &Error{Kind: KindUnknownModel, Msg: fmt.Sprintf("table '%s' do not exist", table)}
}

// ErrUnknownColumn reports a column absent from a table.
func ErrUnknownColumn(column, table string) *Error {
	return &Error{Kind: KindUnknownColumn, Msg: fmt.Sprintf("column '%s' do not exist for table '%s'", column, table)}
}

// ErrInvalidFilter reports an unknown filter operator token.
func ErrInvalidFilter(token string) *Error {
	return &Error{Kind: KindInvalidFilter, Msg: fmt.Sprintf("invalid or unknown filter '%s'", token)}
}

// ErrInvalidFilterSyntax reports a malformed filter expression.
func ErrInvalidFilterSyntax(msg string) *Error {
	return &Error{Kind: KindInvalidFilterSyntax, Msg: msg}
}

// ErrInvalidFilterType reports a parameter that failed to convert.
func ErrInvalidFilterType(param, expected string) *Error {
	return &Error{Kind: KindInvalidFilterType, Msg: fmt.Sprintf("invalid type for filter '%s', expected '%s'", param, expected)}
}

// ErrInvalidColumnType reports a column value that failed to convert.
func ErrInvalidColumnType(column, expected, found string) *Error {
	return &Error{
		Kind: KindInvalidColumnType,
		Msg:  fmt.Sprintf("invalid type for column '%s', expected '%s' found '%s'", column, expected, found),
	}
}

// ErrInvalidInput reports a request body that is not usable.
func ErrInvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Msg: "invalid input: " + msg}
}

// ErrInternal hides cause behind a generic message.
func ErrInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Msg: "internal error, internal database error", Cause: cause}
}
