// Package sanitize strips markup from free-text inputs (notes, remarks,
// task titles, notification messages) before they are stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// Texts sanitizes a slice in place and returns it.
func Texts(in []string) []string {
	for i, s := range in {
		in[i] = Text(s)
	}
	return in
}
