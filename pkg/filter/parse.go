package filter

import (
	"strings"

	"github.com/leapstack-labs/autorest/pkg/core"
)

// MaxDepth bounds the nesting of NOT operators in a single expression.
const MaxDepth = 16

const (
	msgMissingDot = "invalid filter syntax, should be a filter and a value at least, separated by a dot"
	msgEmptyValue = "invalid filter, value of a filter cannot be empty"
	msgInvalidIs  = "invalid filter is / is not, allowed value are true, false, null."
	msgTooDeep    = "invalid filter syntax, too many nested not"
)

// Parse turns a raw "<op>.<value>" query-parameter value into a Filter on column.
//
//	Parse("age", "gt.30")        -> age > '30'
//	Parse("name", "like.a*")     -> name LIKE 'a%'
//	Parse("id", "not.in.1,2")    -> NOT (id IN ('1', '2'))
func Parse(column, raw string) (Filter, error) {
	return parse(column, raw, 0)
}

func parse(column, raw string, depth int) (Filter, error) {
	if depth > MaxDepth {
		return nil, core.ErrInvalidFilterSyntax(msgTooDeep)
	}

	token, value, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, core.ErrInvalidFilterSyntax(msgMissingDot)
	}
	if value == "" {
		return nil, core.ErrInvalidFilterSyntax(msgEmptyValue)
	}

	op, ok := lookupOp(token)
	if !ok {
		return nil, core.ErrInvalidFilter(token)
	}

	switch op {
	case OpLike, OpILike:
		return &Comparison{Operator: op, Col: column, Value: strings.ReplaceAll(value, "*", "%")}, nil
	case OpIn, OpNotIn:
		return &Membership{Operator: op, Col: column, Values: strings.Split(value, ",")}, nil
	case OpIs, OpIsNot:
		kind, ok := parseIsKind(value)
		if !ok {
			return nil, core.ErrInvalidFilterSyntax(msgInvalidIs)
		}
		return &Is{Operator: op, Col: column, Kind: kind}, nil
	case OpNot:
		inner, err := parse(column, value, depth+1)
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	default:
		return &Comparison{Operator: op, Col: column, Value: value}, nil
	}
}
