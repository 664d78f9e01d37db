package convert

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/autorest/pkg/core"
)

func TestDecoderFor(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		tag  core.TypeTag
		set  func(dest any)
		want any
	}{
		{"boolean", core.TypeBoolean, func(d any) { *d.(*sql.Null[bool]) = sql.Null[bool]{V: true, Valid: true} }, true},
		{"smallint", core.TypeSmallInt, func(d any) { *d.(*sql.Null[int16]) = sql.Null[int16]{V: 7, Valid: true} }, int64(7)},
		{"integer", core.TypeInteger, func(d any) { *d.(*sql.Null[int32]) = sql.Null[int32]{V: 42, Valid: true} }, int64(42)},
		{"bigint", core.TypeBigInt, func(d any) { *d.(*sql.Null[int64]) = sql.Null[int64]{V: 1 << 40, Valid: true} }, int64(1 << 40)},
		{"real", core.TypeReal, func(d any) { *d.(*sql.Null[float32]) = sql.Null[float32]{V: 1.5, Valid: true} }, float64(1.5)},
		{"double", core.TypeDouble, func(d any) { *d.(*sql.Null[float64]) = sql.Null[float64]{V: 2.25, Valid: true} }, 2.25},
		{"varchar", core.TypeVarText, func(d any) { *d.(*sql.Null[string]) = sql.Null[string]{V: "hi", Valid: true} }, "hi"},
		{"char", core.TypeFixedText, func(d any) { *d.(*sql.Null[string]) = sql.Null[string]{V: "ab ", Valid: true} }, "ab "},
		{"timestamp", core.TypeTimestamp, func(d any) { *d.(*sql.Null[time.Time]) = sql.Null[time.Time]{V: ts, Valid: true} }, "2024-03-01T12:30:00Z"},
		{"null", core.TypeInteger, func(any) {}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecoderFor(&core.Column{Name: "c", DataType: tt.tag})
			require.NoError(t, err)

			dest := d.Dest()
			tt.set(dest)
			assert.Equal(t, tt.want, d.Value(dest))
		})
	}
}

func TestDecoderFor_Unknown(t *testing.T) {
	d, err := DecoderFor(&core.Column{Name: "geom", DataType: core.TypeUnknown})
	require.Error(t, err)
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	assert.Contains(t, err.Error(), "geom")

	dest := Fallback.Dest()
	*dest.(*any) = []byte{0x01}
	assert.Equal(t, "", Fallback.Value(dest))
}

func TestDecoder_ScanFromDriverValue(t *testing.T) {
	d, err := DecoderFor(&core.Column{Name: "n", DataType: core.TypeSmallInt})
	require.NoError(t, err)

	dest := d.Dest()
	require.NoError(t, dest.(sql.Scanner).Scan(int64(12)))
	assert.Equal(t, int64(12), d.Value(dest))

	dest = d.Dest()
	require.NoError(t, dest.(sql.Scanner).Scan(nil))
	assert.Nil(t, d.Value(dest))
}

func TestJSONType(t *testing.T) {
	tests := []struct {
		tag  core.TypeTag
		want string
	}{
		{core.TypeBoolean, "boolean"},
		{core.TypeSmallInt, "number"},
		{core.TypeInteger, "number"},
		{core.TypeBigInt, "number"},
		{core.TypeReal, "number"},
		{core.TypeDouble, "number"},
		{core.TypeVarText, "string"},
		{core.TypeFixedText, "string"},
		{core.TypeTimestamp, "string"},
		{core.TypeUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, JSONType(tt.tag))
		})
	}
}

func TestToSQL(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		literal string
		arg     any
	}{
		{"null", nil, "NULL", nil},
		{"true", true, "true", true},
		{"false", false, "false", false},
		{"integer", json.Number("42"), "42", int64(42)},
		{"negative integer", json.Number("-7"), "-7", int64(-7)},
		{"float", json.Number("3.5"), "3.5", 3.5},
		{"plain float64", 2.5, "2.5", 2.5},
		{"string", "O'Brien", "O'Brien", "O'Brien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ToSQL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.literal, v.Literal)
			assert.Equal(t, tt.arg, v.Arg)
		})
	}
}

func TestToSQL_Rejects(t *testing.T) {
	for name, in := range map[string]any{
		"array":  []any{json.Number("1")},
		"object": map[string]any{"a": "b"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ToSQL(in)
			require.Error(t, err)
			assert.Equal(t, core.KindInvalidInput, core.KindOf(err))
		})
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "NULL", Quote(nil))
	assert.Equal(t, "'it''s'", Quote("it's"))
	assert.Equal(t, "true", Quote(true))
	assert.Equal(t, "42", Quote(int64(42)))
	assert.Equal(t, "10", Quote(uint64(10)))
	assert.Equal(t, "0.5", Quote(0.5))
}
