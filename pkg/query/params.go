// Package query interprets the reserved query-string keys of a request
// (select, order, limit, offset) and collects every other key as a filter.
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/filter"
)

// Reserved query keys.
const (
	KeySelect = "select"
	KeyLimit  = "limit"
	KeyOffset = "offset"
	KeyOrder  = "order"
)

const unsignedInteger = "unsigned integer"

// IsReserved reports whether key is one of the reserved query keys.
func IsReserved(key string) bool {
	switch key {
	case KeySelect, KeyLimit, KeyOffset, KeyOrder:
		return true
	}
	return false
}

// Params is the raw key/value query-string map of a request.
type Params map[string]string

// FromValues flattens url-style multi values, keeping the first value per key.
func FromValues(values map[string][]string) Params {
	p := make(Params, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p
}

// Keys returns the non-reserved keys, sorted.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Filters parses every non-reserved key as "<column>=<op>.<value>", in key
// order. The first failure is returned.
func (p Params) Filters() ([]filter.Filter, error) {
	keys := p.Keys()
	out := make([]filter.Filter, 0, len(keys))
	for _, k := range keys {
		f, err := filter.Parse(k, p[k])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Select returns the requested column list, or nil when select is absent or empty.
// Entries are trimmed and empty entries skipped.
func (p Params) Select() []string {
	raw, ok := p[KeySelect]
	if !ok {
		return nil
	}
	var cols []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// Limit returns the limit, if present.
func (p Params) Limit() (uint64, bool, error) {
	return p.unsigned(KeyLimit)
}

// Offset returns the offset, if present.
func (p Params) Offset() (uint64, bool, error) {
	return p.unsigned(KeyOffset)
}

func (p Params) unsigned(key string) (uint64, bool, error) {
	raw, ok := p[key]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, false, core.ErrInvalidFilterType(key, unsignedInteger)
	}
	return n, true, nil
}

// Order returns the parsed order clauses. Entries that do not parse are dropped.
func (p Params) Order() []Order {
	raw, ok := p[KeyOrder]
	if !ok {
		return nil
	}
	return ParseOrder(raw)
}
