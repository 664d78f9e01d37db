package convert

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/autorest/pkg/core"
)

// Value is a JSON value prepared for a statement: Arg is bound to a
// placeholder, Literal is its SQL text for logs and dry runs.
type Value struct {
	Literal string
	Arg     any
}

// ToSQL converts a decoded JSON scalar. Numbers should be decoded with
// json.Decoder.UseNumber so integers keep their exact value.
// Arrays and objects are rejected.
func ToSQL(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Value{Literal: "NULL"}, nil
	case bool:
		return Value{Literal: strconv.FormatBool(v), Arg: v}, nil
	case json.Number:
		return numberValue(v)
	case float64:
		return Value{Literal: strconv.FormatFloat(v, 'f', -1, 64), Arg: v}, nil
	case string:
		return Value{Literal: v, Arg: v}, nil
	case []any:
		return Value{}, core.ErrInvalidInput("arrays are not supported as column values")
	case map[string]any:
		return Value{}, core.ErrInvalidInput("objects are not supported as column values")
	default:
		return Value{}, core.ErrInvalidInput(fmt.Sprintf("unsupported value of type %T", v))
	}
}

func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if i, err := n.Int64(); err == nil {
		return Value{Literal: s, Arg: i}, nil
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, core.ErrInvalidInput(fmt.Sprintf("invalid number %q", s))
	}
	return Value{Literal: s, Arg: f}, nil
}

// Quote renders a bound argument as SQL text, quoting strings.
// It is not an escaping routine and must not be used for execution.
func Quote(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
