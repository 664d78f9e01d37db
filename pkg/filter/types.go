package filter

import "strings"

// Op identifies a filter operator.
type Op int

const (
	OpEqual Op = iota
	OpGreaterThanEqual
	OpGreaterThan
	OpLesserThanEqual
	OpLesserThan
	OpNotEqual
	OpLike
	OpILike
	OpIn
	OpNotIn
	OpIs
	OpIsNot
	OpNot
)

type opInfo struct {
	token  string
	symbol string
}

var ops = [...]opInfo{
	OpEqual:            {"EQ", "="},
	OpGreaterThanEqual: {"GTE", ">="},
	OpGreaterThan:      {"GT", ">"},
	OpLesserThanEqual:  {"LTE", "<="},
	OpLesserThan:       {"LT", "<"},
	OpNotEqual:         {"NE", "!="},
	OpLike:             {"LIKE", "LIKE"},
	OpILike:            {"ILIKE", "ILIKE"},
	OpIn:               {"IN", "IN"},
	OpNotIn:            {"NOTIN", "NOT IN"},
	OpIs:               {"IS", "IS"},
	OpIsNot:            {"ISNOT", "IS NOT"},
	OpNot:              {"NOT", "NOT"},
}

// Token returns the query-string token of the operator, e.g. "GTE".
func (o Op) Token() string { return ops[o].token }

// Symbol returns the SQL operator text, e.g. ">=".
func (o Op) Symbol() string { return ops[o].symbol }

func (o Op) String() string { return ops[o].token }

// lookupOp resolves a case-insensitive operator token.
func lookupOp(token string) (Op, bool) {
	up := strings.ToUpper(token)
	for i, info := range ops {
		if info.token == up {
			return Op(i), true
		}
	}
	return 0, false
}

// IsKind is the right-hand side of an IS / IS NOT filter.
type IsKind int

const (
	IsNull IsKind = iota
	IsTrue
	IsFalse
)

var isKinds = [...]string{
	IsNull:  "NULL",
	IsTrue:  "TRUE",
	IsFalse: "FALSE",
}

func (k IsKind) String() string { return isKinds[k] }

func parseIsKind(s string) (IsKind, bool) {
	up := strings.ToUpper(s)
	for i, name := range isKinds {
		if name == up {
			return IsKind(i), true
		}
	}
	return 0, false
}

// Filter is a single typed predicate over one column, or the negation of
// another filter. Use a type switch on *Comparison, *Membership, *Is and *Not
// to access variant data.
type Filter interface {
	// Op returns the operator of the filter.
	Op() Op
	// Column returns the column the filter applies to. For Not it is the
	// column of the innermost filter.
	Column() string

	filterMarker()
}

// Comparison covers the binary comparison and pattern operators:
// EQ, GTE, GT, LTE, LT, NE, LIKE and ILIKE.
// For LIKE/ILIKE, Value holds the pattern with '*' already rewritten to '%'.
type Comparison struct {
	Operator Op
	Col      string
	Value    string
}

// Membership covers IN and NOTIN.
type Membership struct {
	Operator Op
	Col      string
	Values   []string
}

// Is covers IS and ISNOT.
type Is struct {
	Operator Op
	Col      string
	Kind     IsKind
}

// Not negates Inner.
type Not struct {
	Inner Filter
}

func (c *Comparison) Op() Op         { return c.Operator }
func (c *Comparison) Column() string { return c.Col }
func (*Comparison) filterMarker()    {}

func (m *Membership) Op() Op         { return m.Operator }
func (m *Membership) Column() string { return m.Col }
func (*Membership) filterMarker()    {}

func (i *Is) Op() Op         { return i.Operator }
func (i *Is) Column() string { return i.Col }
func (*Is) filterMarker()    {}

func (n *Not) Op() Op { return OpNot }
func (n *Not) Column() string {
	if n.Inner == nil {
		return ""
	}
	return n.Inner.Column()
}
func (*Not) filterMarker() {}

// Equal builds column = value.
func Equal(col, value string) Filter { return &Comparison{OpEqual, col, value} }

// GreaterThanEqual builds column >= value.
func GreaterThanEqual(col, value string) Filter { return &Comparison{OpGreaterThanEqual, col, value} }

// GreaterThan builds column > value.
func GreaterThan(col, value string) Filter { return &Comparison{OpGreaterThan, col, value} }

// LesserThanEqual builds column <= value.
func LesserThanEqual(col, value string) Filter { return &Comparison{OpLesserThanEqual, col, value} }

// LesserThan builds column < value.
func LesserThan(col, value string) Filter { return &Comparison{OpLesserThan, col, value} }

// NotEqual builds column != value.
func NotEqual(col, value string) Filter { return &Comparison{OpNotEqual, col, value} }

// Like builds column LIKE pattern. The pattern is used as given.
func Like(col, pattern string) Filter { return &Comparison{OpLike, col, pattern} }

// ILike builds column ILIKE pattern. The pattern is used as given.
func ILike(col, pattern string) Filter { return &Comparison{OpILike, col, pattern} }

// In builds column IN (values...).
func In(col string, values ...string) Filter { return &Membership{OpIn, col, values} }

// NotIn builds column NOT IN (values...).
func NotIn(col string, values ...string) Filter { return &Membership{OpNotIn, col, values} }

// IsOf builds column IS kind.
func IsOf(col string, kind IsKind) Filter { return &Is{OpIs, col, kind} }

// IsNotOf builds column IS NOT kind.
func IsNotOf(col string, kind IsKind) Filter { return &Is{OpIsNot, col, kind} }

// Negate builds NOT (f).
func Negate(f Filter) Filter { return &Not{Inner: f} }
