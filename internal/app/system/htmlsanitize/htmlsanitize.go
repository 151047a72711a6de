// Package htmlsanitize strips dangerous markup from user-authored text
// before it is stored. Message bodies and photo comments may carry
// simple formatting; titles and names are reduced to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps user-generated-content formatting (paragraphs,
// emphasis, safe links) and removes scripts, event handlers, and
// javascript: URLs.
func Sanitize(s string) string {
	return ugc.Sanitize(s)
}

// Plain strips all markup and trims surrounding whitespace.
func Plain(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
