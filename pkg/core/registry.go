package core

import (
	"errors"
	"sort"
	"sync/atomic"
)

// ErrIncludeExclude is returned when a registry is configured with both an
// inclusion and an exclusion list.
var ErrIncludeExclude = errors.New("cannot specify both excluded and included tables")

// RegistryOptions restricts which discovered tables are served.
// At most one of Include and Exclude may be non-empty.
type RegistryOptions struct {
	Include []string
	Exclude []string
}

// Validate checks that Include and Exclude are not both set.
func (o RegistryOptions) Validate() error {
	if len(o.Include) != 0 && len(o.Exclude) != 0 {
		return ErrIncludeExclude
	}
	return nil
}

// Allows reports whether a table name passes the inclusion/exclusion lists.
func (o RegistryOptions) Allows(table string) bool {
	if len(o.Include) != 0 {
		return contains(o.Include, table)
	}
	return !contains(o.Exclude, table)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Registry is the immutable map of table name to table metadata used to
// validate and render every request. It is safe for concurrent reads.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry builds a registry from discovered tables, filtered by opts.
func NewRegistry(tables []*Table, opts RegistryOptions) (*Registry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{tables: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if !opts.Allows(t.Name) {
			continue
		}
		r.tables[t.Name] = t
	}
	return r, nil
}

// Table looks up a table by name.
func (r *Registry) Table(name string) (*Table, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tables[name]
	return t, ok
}

// Lookup is like Table but returns an UnknownModel error when absent.
func (r *Registry) Lookup(name string) (*Table, error) {
	t, ok := r.Table(name)
	if !ok {
		return nil, ErrUnknownModel(name)
	}
	return t, nil
}

// TableNames returns all table names, sorted.
func (r *Registry) TableNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tables.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tables)
}

// Handle holds the registry currently in use. Readers call Load for every
// request; a schema reload replaces the whole registry with Store.
type Handle struct {
	p atomic.Pointer[Registry]
}

// NewHandle returns a handle pointing at r.
func NewHandle(r *Registry) *Handle {
	h := &Handle{}
	h.p.Store(r)
	return h
}

// Load returns the current registry.
func (h *Handle) Load() *Registry {
	return h.p.Load()
}

// Store swaps in a new registry.
func (h *Handle) Store(r *Registry) {
	h.p.Store(r)
}
