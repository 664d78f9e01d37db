package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leapstack-labs/autorest/pkg/core"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// StatusFor maps an error to its HTTP status: 404 for NotFound, 500 for
// Internal and 400 for every other request error.
func StatusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeData(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, dataEnvelope{Data: v})
}

// writeErr writes err with its mapped status. Foreign errors are reported
// with the generic internal message.
func writeErr(w http.ResponseWriter, err error) {
	var cerr *core.Error
	if !errors.As(err, &cerr) {
		cerr = core.ErrInternal(err)
	}
	writeError(w, StatusFor(cerr), cerr.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
