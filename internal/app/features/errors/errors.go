// Package errors renders the API's JSON error envelope and provides an
// ErrorLogger that records server-side detail before responding.
//
// Envelope shape:
//
//	{ "success": false, "message": "...", "error": "..." }
//
// The "error" field carries optional caller-safe detail; internal errors are
// logged, never echoed.
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
)

// envelope is the failure response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Render writes a failure envelope with the given status and message.
func Render(w http.ResponseWriter, status int, msg string) {
	RenderDetail(w, status, msg, "")
}

// RenderDetail writes a failure envelope with optional caller-safe detail.
func RenderDetail(w http.ResponseWriter, status int, msg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Message: msg, Error: detail})
}

// RenderBadRequest writes a 400 envelope.
func RenderBadRequest(w http.ResponseWriter, msg string) {
	Render(w, http.StatusBadRequest, msg)
}

// RenderUnauthorized writes a 401 envelope.
func RenderUnauthorized(w http.ResponseWriter) {
	Render(w, http.StatusUnauthorized, "Sign in required.")
}

// RenderForbidden writes a 403 envelope.
func RenderForbidden(w http.ResponseWriter, msg string) {
	Render(w, http.StatusForbidden, msg)
}

// RenderNotFound writes a 404 envelope.
func RenderNotFound(w http.ResponseWriter, msg string) {
	Render(w, http.StatusNotFound, msg)
}

// RenderConflict writes a 409 envelope.
func RenderConflict(w http.ResponseWriter, msg string) {
	Render(w, http.StatusConflict, msg)
}

// RenderAppError maps a classified business error (apperr) to its envelope.
// Unclassified errors become a 500 with a generic message.
func RenderAppError(w http.ResponseWriter, err error) {
	Render(w, apperr.HTTPStatus(err), apperr.Message(err))
}
