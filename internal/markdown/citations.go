package markdown

import (
	"regexp"
	"strings"
)

var (
	citeStartPattern = regexp.MustCompile(`\[cite_start\]`)
	citeRefPattern   = regexp.MustCompile(`\[cite:[\d,\s]+\]`)
	blankRunPattern  = regexp.MustCompile(`\n{3,}`)
)

// StripCitations removes Gemini citation markers, collapses runs of three or
// more newlines to two and trims the result. Removal repeats until no marker
// is left, so markers exposed by an earlier removal are also stripped.
func StripCitations(s string) string {
	for {
		next := citeStartPattern.ReplaceAllString(s, "")
		next = citeRefPattern.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
