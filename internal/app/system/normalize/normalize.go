// Package normalize provides canonical forms for user-supplied identity
// fields so lookups and uniqueness checks behave predictably.
package normalize

import (
	"strings"
	"time"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role string.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Campus lowercases and trims a campus code so filters match regardless of
// how the campus was typed.
func Campus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PlanDate trims and validates a YYYY-MM-DD date string. ok is false when
// the input is not a real calendar date in that layout.
func PlanDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}
