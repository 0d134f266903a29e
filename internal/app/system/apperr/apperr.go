// Package apperr defines the error kinds surfaced by business operations and
// their HTTP status mapping. Guards detect these before any mutation, so a
// caller that receives one can assume no partial state change occurred.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business error.
type Kind int

const (
	// Validation covers bad, missing, wrong-role, or inactive ids and
	// malformed dates.
	Validation Kind = iota
	// NotFound covers unknown assignment/person/day-plan ids.
	NotFound
	// Forbidden means the actor lacks authority over the target entity.
	Forbidden
	// Conflict covers duplicate active bindings and duplicate day plans
	// for a date.
	Conflict
)

// Error is a classified business error with a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional underlying cause, not shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a classified error with the given message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf returns a classified error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches an underlying cause to a classified error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf extracts the kind from err. ok is false when err is not an
// apperr.Error (treat as an internal server error).
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { k, ok := KindOf(err); return ok && k == Validation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { k, ok := KindOf(err); return ok && k == NotFound }

// IsForbidden reports whether err is a forbidden error.
func IsForbidden(err error) bool { k, ok := KindOf(err); return ok && k == Forbidden }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { k, ok := KindOf(err); return ok && k == Conflict }

// HTTPStatus maps an error to the response status the JSON envelope uses:
// 400 validation, 404 not found, 403 forbidden, 409 conflict, 500 otherwise.
func HTTPStatus(err error) int {
	switch k, ok := KindOf(err); {
	case !ok:
		return http.StatusInternalServerError
	case k == Validation:
		return http.StatusBadRequest
	case k == NotFound:
		return http.StatusNotFound
	case k == Forbidden:
		return http.StatusForbidden
	case k == Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-safe message for err, or a generic fallback for
// unclassified errors so internals never leak to clients.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "An unexpected error occurred."
}
