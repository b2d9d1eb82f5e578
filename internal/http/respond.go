package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"financas/internal/core"
	applog "financas/internal/log"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a ledger error kind to its HTTP status.
func statusFor(err error) int {
	switch core.Kind(err) {
	case "validation":
		return http.StatusUnprocessableEntity
	case "not_found":
		return http.StatusNotFound
	case "no_principal_account", "insufficient_funds":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: errorDetail{
		Kind:    core.Kind(err),
		Message: core.UserMessage(err),
	}}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		body.Error.Fields = verr.Fields
	}

	logger := applog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", applog.FieldError, err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", applog.FieldError, err)
	}
	writeJSON(w, status, body)
}

// decodeBody reads a single JSON document into dst. Malformed or oversized
// bodies are reported as a validation failure on "body".
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &core.ValidationError{Fields: []string{"body"}}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &core.ValidationError{Fields: []string{"body"}}
	}
	return nil
}
