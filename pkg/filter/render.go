package filter

import (
	"fmt"
	"strings"
)

// Render returns the textual SQL predicate of f with values quoted verbatim.
// The output is not escaped and is meant for logs and dry runs only.
// A non-empty prefix qualifies the column as "prefix.column".
func Render(f Filter, prefix string) string {
	switch f := f.(type) {
	case *Comparison:
		return fmt.Sprintf("%s %s '%s'", qualify(prefix, f.Col), f.Operator.Symbol(), f.Value)
	case *Membership:
		quoted := make([]string, len(f.Values))
		for i, v := range f.Values {
			quoted[i] = "'" + v + "'"
		}
		return fmt.Sprintf("%s %s (%s)", qualify(prefix, f.Col), f.Operator.Symbol(), strings.Join(quoted, ", "))
	case *Is:
		return fmt.Sprintf("%s %s %s", qualify(prefix, f.Col), f.Operator.Symbol(), f.Kind)
	case *Not:
		return "NOT (" + Render(f.Inner, prefix) + ")"
	default:
		return ""
	}
}

func qualify(prefix, column string) string {
	if prefix == "" {
		return column
	}
	return prefix + "." + column
}
