package core

import (
	"fmt"
	"strings"
)

// Method is the operation requested on a table.
type Method int

const (
	// MethodGet reads rows.
	MethodGet Method = iota
	// MethodPost creates a row.
	MethodPost
	// MethodPut updates rows.
	MethodPut
	// MethodPatch updates rows.
	MethodPatch
	// MethodDelete deletes rows.
	MethodDelete
)

var methodNames = [...]string{
	MethodGet:    "GET",
	MethodPost:   "POST",
	MethodPut:    "PUT",
	MethodPatch:  "PATCH",
	MethodDelete: "DELETE",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

// ParseMethod maps an HTTP method name to a Method. The second result is false
// for methods the engine does not serve.
func ParseMethod(s string) (Method, bool) {
	up := strings.ToUpper(s)
	for i, name := range methodNames {
		if name == up {
			return Method(i), true
		}
	}
	return 0, false
}

// IsWrite reports whether the method carries a request body.
func (m Method) IsWrite() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}
