// Package respond writes JSON API responses and decodes JSON request
// bodies. Success responses use the same envelope shape the errors feature
// uses for failures, so clients can always branch on "success".
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/limits"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes v as-is with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data writes a 200 success envelope wrapping v.
func Data(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: v})
}

// Created writes a 201 success envelope wrapping v.
func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, envelope{Success: true, Data: v})
}

// OK writes a 200 success envelope with just a message.
func OK(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, envelope{Success: true, Message: msg})
}

// DecodeJSON reads the request body into dst, enforcing the body size cap
// and rejecting malformed JSON with a Validation error.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, limits.MaxJSONBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.New(apperr.Validation, "Request body is too large.")
		}
		return apperr.Wrap(apperr.Validation, "Request body is not valid JSON.", err)
	}
	return nil
}
