// Package htmlsanitize strips markup from user-entered free text before it is
// stored. Values are rendered through html/template, which escapes them, but
// stored documents are also exported (CSV) and read by other tools.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag and returns the remaining text, trimmed.
// Entities produced by the policy are decoded so "Feijão & milho" round-trips.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
