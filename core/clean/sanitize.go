package clean

import (
	"regexp"
	"strings"
)

var (
	htmlComment  = regexp.MustCompile(`(?s)<!--.*?-->`)
	pardotRegion = regexp.MustCompile(`\s?pardot-region="[^"]*"`)
	officeSpacer = regexp.MustCompile(`<o:p>(?:</o:p>)?`)
)

// Sanitize rewrites a fragment for downstream use: comments and editor
// region markers are removed, template delimiters are tripled so a later
// templating pass emits them literally, and empty Office spacer tags are
// dropped.
func Sanitize(fragment string) string {
	s := htmlComment.ReplaceAllString(fragment, "")
	s = pardotRegion.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "{{", "{{{")
	s = strings.ReplaceAll(s, "}}", "}}}")
	return officeSpacer.ReplaceAllString(s, "")
}

// SanitizeAll sanitizes every fragment, preserving order. Fragments left
// blank by sanitizing are dropped.
func SanitizeAll(fragments []string) []string {
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if s := Sanitize(f); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
