// Package state keeps the request journal: one row per served API request,
// stored in SQLite and aggregated for the stats endpoint and command.
package state

import (
	"context"
	"errors"
	"time"
)

// ErrNotOpened is returned when the store is used before Open.
var ErrNotOpened = errors.New("database not opened")

// Entry is one served request.
type Entry struct {
	ID        string
	Method    string
	Path      string
	Table     string
	Status    int
	Duration  time.Duration
	CreatedAt time.Time
}

// TableStat aggregates the entries of one table.
type TableStat struct {
	Table      string  `json:"table" yaml:"table"`
	Requests   int64   `json:"requests" yaml:"requests"`
	Errors     int64   `json:"errors" yaml:"errors"`
	MeanMillis float64 `json:"mean_ms" yaml:"mean_ms"`
	MaxMillis  float64 `json:"max_ms" yaml:"max_ms"`
}

// Journal records requests and reports per-table statistics.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	TableStats(ctx context.Context) ([]TableStat, error)
	Close() error
}
