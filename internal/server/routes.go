package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/autorest/internal/engine"
	"github.com/leapstack-labs/autorest/pkg/convert"
	"github.com/leapstack-labs/autorest/pkg/core"
	"github.com/leapstack-labs/autorest/pkg/query"
)

func (s *Server) routes(r chi.Router) {
	r.HandleFunc("/api/{table}", s.handleTable)

	r.Route("/builtins", func(r chi.Router) {
		r.Get("/docs", s.handleDocs)
		r.Get("/stats", s.handleStats)
		r.Get("/{name}", func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown builtin '%s'", chi.URLParam(r, "name")))
		})
		r.MethodNotAllowed(methodNotAllowed)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no route for '%s'", r.URL.Path))
	})
	r.MethodNotAllowed(methodNotAllowed)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method not allowed '%s'", r.Method))
}

// handleTable serves every method on /api/{table}.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	method, ok := core.ParseMethod(r.Method)
	if !ok {
		methodNotAllowed(w, r)
		return
	}

	req := engine.Request{
		Method: method,
		Table:  chi.URLParam(r, "table"),
		Params: query.FromValues(r.URL.Query()),
	}

	if method.IsWrite() {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeErr(w, core.ErrInvalidInput("body too large"))
				return
			}
			writeErr(w, core.ErrInvalidInput("failed to read body"))
			return
		}
		req.Body = string(body)
	}

	out, err := s.engine.Any(r.Context(), req)
	if err != nil {
		if kind := core.KindOf(err); kind.IsClientError() {
			s.logger.Debug("request rejected",
				slog.String("table", req.Table),
				slog.String("kind", kind.String()),
				slog.String("error", err.Error()))
		}
		writeErr(w, err)
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeData(w, out)
}

// ColumnDoc describes one column of a served table.
type ColumnDoc struct {
	Name      string  `json:"name" yaml:"name"`
	Type      string  `json:"type" yaml:"type"`
	JSONType  string  `json:"json_type" yaml:"json_type"`
	Nullable  bool    `json:"nullable" yaml:"nullable"`
	Updatable bool    `json:"updatable" yaml:"updatable"`
	Default   *string `json:"default,omitempty" yaml:"default,omitempty"`
	MaxLength *int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

// TableDoc describes one served table.
type TableDoc struct {
	Name    string      `json:"name" yaml:"name"`
	Columns []ColumnDoc `json:"columns" yaml:"columns"`
}

// Describe lists every table of reg, sorted by name, columns in catalog order.
// It backs the docs endpoint and the schema command.
func Describe(reg *core.Registry) []TableDoc {
	docs := []TableDoc{}
	for _, name := range reg.TableNames() {
		t, _ := reg.Table(name)
		doc := TableDoc{Name: name, Columns: []ColumnDoc{}}
		for _, cn := range t.ColumnNames() {
			c, _ := t.Column(cn)
			doc.Columns = append(doc.Columns, ColumnDoc{
				Name:      c.Name,
				Type:      c.DataType.String(),
				JSONType:  convert.JSONType(c.DataType),
				Nullable:  c.IsNullable,
				Updatable: c.IsUpdatable,
				Default:   c.Default,
				MaxLength: c.MaxLength,
			})
		}
		docs = append(docs, doc)
	}
	return docs
}

func (s *Server) handleDocs(w http.ResponseWriter, _ *http.Request) {
	writeData(w, Describe(s.engine.Registry().Load()))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeData(w, []any{})
		return
	}
	stats, err := s.journal.TableStats(r.Context())
	if err != nil {
		s.logger.Error("failed to read request journal", "error", err)
		writeErr(w, core.ErrInternal(err))
		return
	}
	writeData(w, stats)
}
