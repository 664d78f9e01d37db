package core

import (
	"sort"
	"strings"
)

// TypeTag is the closed set of primitive column types the conversion layer understands.
type TypeTag int

const (
	// TypeUnknown is any catalog type without a dedicated conversion.
	TypeUnknown TypeTag = iota
	// TypeBoolean is a boolean column.
	TypeBoolean
	// TypeSmallInt is a 16-bit integer column.
	TypeSmallInt
	// TypeInteger is a 32-bit integer column.
	TypeInteger
	// TypeBigInt is a 64-bit integer column.
	TypeBigInt
	// TypeReal is a single precision float column.
	TypeReal
	// TypeDouble is a double precision float column.
	TypeDouble
	// TypeVarText is a variable length text column (varchar, text).
	TypeVarText
	// TypeFixedText is a fixed length text column (char(n), bpchar).
	TypeFixedText
	// TypeTimestamp is a timestamp column, with or without time zone.
	TypeTimestamp
)

var typeTagNames = [...]string{
	TypeUnknown:   "unknown",
	TypeBoolean:   "boolean",
	TypeSmallInt:  "smallint",
	TypeInteger:   "integer",
	TypeBigInt:    "bigint",
	TypeReal:      "real",
	TypeDouble:    "double",
	TypeVarText:   "varchar",
	TypeFixedText: "char",
	TypeTimestamp: "timestamp",
}

// String returns the canonical lowercase name of the tag.
func (t TypeTag) String() string {
	if t < 0 || int(t) >= len(typeTagNames) {
		return typeTagNames[TypeUnknown]
	}
	return typeTagNames[t]
}

// catalogTypes maps catalog type names, as reported by information_schema
// (PostgreSQL udt_name, DuckDB data_type) or SQLite declared types, to a tag.
var catalogTypes = map[string]TypeTag{
	"bool":                        TypeBoolean,
	"boolean":                     TypeBoolean,
	"int2":                        TypeSmallInt,
	"smallint":                    TypeSmallInt,
	"tinyint":                     TypeSmallInt,
	"int4":                        TypeInteger,
	"int":                         TypeInteger,
	"integer":                     TypeInteger,
	"mediumint":                   TypeInteger,
	"int8":                        TypeBigInt,
	"bigint":                      TypeBigInt,
	"float4":                      TypeReal,
	"real":                        TypeReal,
	"float":                       TypeReal,
	"float8":                      TypeDouble,
	"double":                      TypeDouble,
	"double precision":            TypeDouble,
	"varchar":                     TypeVarText,
	"character varying":           TypeVarText,
	"text":                        TypeVarText,
	"string":                      TypeVarText,
	"bpchar":                      TypeFixedText,
	"char":                        TypeFixedText,
	"character":                   TypeFixedText,
	"timestamp":                   TypeTimestamp,
	"timestamptz":                 TypeTimestamp,
	"datetime":                    TypeTimestamp,
	"timestamp without time zone": TypeTimestamp,
	"timestamp with time zone":    TypeTimestamp,
}

// ParseTypeTag maps a catalog type name to its TypeTag. Length modifiers such as
// "varchar(255)" are ignored. Unmapped names yield TypeUnknown.
func ParseTypeTag(name string) TypeTag {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	if tag, ok := catalogTypes[n]; ok {
		return tag
	}
	return TypeUnknown
}

// Column describes one column of a table. Columns are immutable once built.
type Column struct {
	Name        string
	Default     *string
	IsNullable  bool
	DataType    TypeTag
	MaxLength   *int
	IsUpdatable bool
}

// Table describes a table and its columns.
type Table struct {
	Name    string
	Columns map[string]*Column

	// order holds column names in catalog ordinal order.
	order []string
}

// NewTable builds a table from columns given in catalog order.
// A repeated column name keeps the last definition at the first position.
func NewTable(name string, columns ...*Column) *Table {
	t := &Table{
		Name:    name,
		Columns: make(map[string]*Column, len(columns)),
		order:   make([]string, 0, len(columns)),
	}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// AddColumn appends a column. It is meant for builders (schema discovery) and
// must not be called once the table is part of a Registry.
func (t *Table) AddColumn(c *Column) {
	if t.Columns == nil {
		t.Columns = make(map[string]*Column)
	}
	if _, exists := t.Columns[c.Name]; !exists {
		t.order = append(t.order, c.Name)
	}
	t.Columns[c.Name] = c
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.Columns[name]
	return c, ok
}

// HasColumn reports whether the table defines the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Columns[name]
	return ok
}

// ColumnNames returns the column names in the table's iteration order.
// Tables built without NewTable/AddColumn fall back to sorted order.
func (t *Table) ColumnNames() []string {
	if len(t.order) == len(t.Columns) {
		out := make([]string, len(t.order))
		copy(out, t.order)
		return out
	}
	out := make([]string, 0, len(t.Columns))
	for name := range t.Columns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
