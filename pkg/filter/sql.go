package filter

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Predicate is the parameterized form of a filter. It implements
// squirrel.Sqlizer so it can be passed straight to a builder's Where.
type Predicate struct {
	Filter Filter
	Prefix string
}

var _ sq.Sqlizer = Predicate{}

// NewPredicate wraps f with a column prefix.
func NewPredicate(f Filter, prefix string) Predicate {
	return Predicate{Filter: f, Prefix: prefix}
}

// ToSql implements squirrel.Sqlizer.
func (p Predicate) ToSql() (string, []interface{}, error) {
	return ToSQL(p.Filter, p.Prefix)
}

// ToSQL renders f with "?" placeholders and returns the bound values in order.
// Placeholders are rewritten by the enclosing squirrel builder.
func ToSQL(f Filter, prefix string) (string, []any, error) {
	switch f := f.(type) {
	case *Comparison:
		return fmt.Sprintf("%s %s ?", qualify(prefix, f.Col), f.Operator.Symbol()), []any{f.Value}, nil
	case *Membership:
		if len(f.Values) == 0 {
			return "", nil, fmt.Errorf("filter %s on %q has no values", f.Operator, f.Col)
		}
		args := make([]any, len(f.Values))
		for i, v := range f.Values {
			args[i] = v
		}
		marks := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
		return fmt.Sprintf("%s %s (%s)", qualify(prefix, f.Col), f.Operator.Symbol(), marks), args, nil
	case *Is:
		return fmt.Sprintf("%s %s %s", qualify(prefix, f.Col), f.Operator.Symbol(), f.Kind), nil, nil
	case *Not:
		if f.Inner == nil {
			return "", nil, fmt.Errorf("not filter without operand")
		}
		inner, args, err := ToSQL(f.Inner, prefix)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + inner + ")", args, nil
	default:
		return "", nil, fmt.Errorf("unsupported filter type %T", f)
	}
}
