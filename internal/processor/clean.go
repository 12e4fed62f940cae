package processor

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe     = regexp.MustCompile(`\s+`)
	editMarkerRe     = regexp.MustCompile(`\[edit\]`)
	citationNeededRe = regexp.MustCompile(`\[citation needed\]`)
	referenceRe      = regexp.MustCompile(`\[\d+\]`)
)

// CleanText collapses whitespace runs to single spaces, strips wiki
// artifacts (edit markers, citation-needed markers, numeric reference
// brackets), and trims. Idempotent: a second application is a no-op.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = editMarkerRe.ReplaceAllString(s, "")
	s = citationNeededRe.ReplaceAllString(s, "")
	s = referenceRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
