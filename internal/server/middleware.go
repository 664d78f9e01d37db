package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/leapstack-labs/autorest/internal/state"
)

// RequestIDHeader carries the id under which a request is journaled.
const RequestIDHeader = "X-Request-Id"

var allowedMethods = strings.Join([]string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}, ", ")

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Allow-Methods", allowedMethods)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metrics logs the latency of every request and, unless disabled, records it
// in the journal.
func (s *Server) metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		var table string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			table = rctx.URLParam("table")
		}

		s.logger.Info("request served",
			slog.String("id", id),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", elapsed))

		if s.disableMetrics || s.journal == nil {
			return
		}
		entry := state.Entry{
			ID:        id,
			Method:    r.Method,
			Path:      r.URL.Path,
			Table:     table,
			Status:    status,
			Duration:  elapsed,
			CreatedAt: start.UTC(),
		}
		if err := s.journal.Record(context.WithoutCancel(r.Context()), entry); err != nil {
			s.logger.Warn("failed to record request", "error", err)
		}
	})
}
