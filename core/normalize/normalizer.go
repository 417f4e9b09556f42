// Package normalize canonicalizes text fragments into comparison keys.
// Two texts are considered the same paragraph iff their keys are identical.
//
// The rewrite sequence is fixed and ordered: later rules assume the earlier
// ones already ran. Input may contain escaped markup, HTML entities or
// quoted-printable artifacts from the raw message.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	escapedTag  = regexp.MustCompile(`&lt;.*?&gt;`)
	breakTag    = regexp.MustCompile(`<br/?>`)
	bracketed   = regexp.MustCompile(`\[.*?\]`)
	anyTag      = regexp.MustCompile(`<[^>]+>`)
	entityChars = strings.NewReplacer(
		"&reg;", "®",
		"&ldquo;", "“",
		"&apos;", "'",
	)
)

// Normalize returns the comparison key for text. The result is stable:
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	// Compatibility decomposition can surface characters ('=', '<', U+0020)
	// that an earlier rule removes, so the sequence is re-applied until the
	// key is stable. After the first pass a pass only deletes or replaces
	// with shorter text, so the loop ends.
	key := pass(text)
	for next := pass(key); next != key; next = pass(key) {
		key = next
	}
	return key
}

// IsEmpty reports whether a key is unmatchable.
func IsEmpty(key string) bool {
	return strings.TrimSpace(key) == ""
}

// pass applies the rewrite sequence once.
func pass(s string) string {
	s = escapedTag.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&quot;", "'")
	s = breakTag.ReplaceAllString(s, "")

	// Quoted-printable soft breaks first, then any stray '='.
	s = strings.ReplaceAll(s, "= ", "")
	s = strings.ReplaceAll(s, "=", "")

	s = entityChars.Replace(s)
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, " ", "")
	s = bracketed.ReplaceAllString(s, "")

	// UTF-8 bytes of an en dash leaked as hex by some encoders.
	s = strings.ReplaceAll(s, "E28093", "-")

	s = anyTag.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = norm.NFKC.String(s)
	return strings.TrimSpace(s)
}
