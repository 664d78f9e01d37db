package query

import "strings"

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Order is one ORDER BY entry.
type Order struct {
	Column    string
	Direction Direction
}

// ParseOrder parses a comma-separated list of "col", "col.asc" or "col.desc".
// Entries with an empty column or an unknown suffix are skipped.
func ParseOrder(raw string) []Order {
	var out []Order
	for _, entry := range strings.Split(raw, ",") {
		if o, ok := parseOrderEntry(strings.TrimSpace(entry)); ok {
			out = append(out, o)
		}
	}
	return out
}

func parseOrderEntry(entry string) (Order, bool) {
	col, dir, hasDir := strings.Cut(entry, ".")
	if col == "" {
		return Order{}, false
	}
	if !hasDir {
		return Order{Column: col, Direction: Asc}, true
	}
	switch strings.ToLower(dir) {
	case "asc":
		return Order{Column: col, Direction: Asc}, true
	case "desc":
		return Order{Column: col, Direction: Desc}, true
	default:
		return Order{}, false
	}
}
