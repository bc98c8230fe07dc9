package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Mal-back/cal-tracker/internal/server/services"
)

const maxBodyBytes = 64 << 10

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts a handlerFunc; a returned error is recorded for the request
// log and rendered by writeError.
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

type errorBody struct {
	Type  ClientError `json:"type"`
	ReqID string      `json:"req_id"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type resultResponse struct {
	Result any `json:"result"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, resultResponse{Result: v})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, client := Classify(err)

	reqID := ""
	if ri := infoFrom(r.Context()); ri != nil {
		ri.err = err
		reqID = ri.id.String()
	}

	writeJSON(w, status, errorResponse{Error: errorBody{Type: client, ReqID: reqID}})
}

// decodeJSON reads exactly one JSON value into dst. Any failure is an
// ErrInvalidInput.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: empty body", services.ErrInvalidInput)
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: extra data after JSON object", services.ErrInvalidInput)
	}
	return nil
}
