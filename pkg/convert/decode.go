// Package convert translates values between database rows and JSON.
package convert

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/autorest/pkg/core"
)

// ErrUnsupportedType is returned by DecoderFor for columns whose type has no
// conversion. Callers fall back to the Fallback decoder.
var ErrUnsupportedType = errors.New("unsupported column type")

// Decoder scans one column of a row and produces its JSON value.
type Decoder interface {
	// Dest returns a fresh scan destination for rows.Scan.
	Dest() any
	// Value converts a scanned destination into a JSON-ready value.
	// SQL NULL becomes nil.
	Value(dest any) any
}

type nullDecoder[T any] struct {
	conv func(T) any
}

func (d nullDecoder[T]) Dest() any { return new(sql.Null[T]) }

func (d nullDecoder[T]) Value(dest any) any {
	n, ok := dest.(*sql.Null[T])
	if !ok || !n.Valid {
		return nil
	}
	return d.conv(n.V)
}

func identity[T any](v T) any { return v }

func widenInt[T int16 | int32 | int64](v T) any { return int64(v) }

func widenFloat[T float32 | float64](v T) any { return float64(v) }

func formatTime(v time.Time) any { return v.Format(time.RFC3339) }

var decoders = map[core.TypeTag]Decoder{
	core.TypeBoolean:   nullDecoder[bool]{identity[bool]},
	core.TypeSmallInt:  nullDecoder[int16]{widenInt[int16]},
	core.TypeInteger:   nullDecoder[int32]{widenInt[int32]},
	core.TypeBigInt:    nullDecoder[int64]{widenInt[int64]},
	core.TypeReal:      nullDecoder[float32]{widenFloat[float32]},
	core.TypeDouble:    nullDecoder[float64]{widenFloat[float64]},
	core.TypeVarText:   nullDecoder[string]{identity[string]},
	core.TypeFixedText: nullDecoder[string]{identity[string]},
	core.TypeTimestamp: nullDecoder[time.Time]{formatTime},
}

// fallbackDecoder discards the scanned value and always yields "".
type fallbackDecoder struct{}

func (fallbackDecoder) Dest() any     { return new(any) }
func (fallbackDecoder) Value(any) any { return "" }

// Fallback is used for columns without a conversion; every value becomes "".
var Fallback Decoder = fallbackDecoder{}

// DecoderFor returns the decoder for a column's type. Unknown types return
// an error wrapping ErrUnsupportedType.
func DecoderFor(col *core.Column) (Decoder, error) {
	if d, ok := decoders[col.DataType]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("column %q: %w", col.Name, ErrUnsupportedType)
}

// JSONType names the JSON type values of tag are rendered as.
func JSONType(tag core.TypeTag) string {
	switch tag {
	case core.TypeBoolean:
		return "boolean"
	case core.TypeSmallInt, core.TypeInteger, core.TypeBigInt, core.TypeReal, core.TypeDouble:
		return "number"
	case core.TypeVarText, core.TypeFixedText, core.TypeTimestamp:
		return "string"
	default:
		return "unknown"
	}
}
