// Package paragraph turns a plain-text body into paragraph units.
//
// The plain-text rendition is first re-expressed as HTML paragraphs (the
// "text as HTML" form mail parsers derive), then split back on paragraph
// tags. Keeping the escaped form means entity and line-break artifacts reach
// the normalizer exactly as a mail client would have produced them.
package paragraph

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/mailfrag/core"
)

var (
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	trailingBlanks = regexp.MustCompile(`(?m)[ \t]+$`)
	paragraphBreak = regexp.MustCompile(`\n\n+`)
	paragraphTag   = regexp.MustCompile(`</?p>`)
)

// TextToHTML converts a plain-text body into paragraph HTML. Blank input
// yields "".
func TextToHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	s := escaper.Replace(text)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSpace(s)
	s = trailingBlanks.ReplaceAllString(s, "")
	s = paragraphBreak.ReplaceAllString(s, "</p><p>")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\n", "<br/>")
	return "<p>" + s + "</p>"
}

// Split cuts a text-as-HTML rendition on paragraph tags and numbers the
// non-blank pieces in order.
func Split(textAsHTML string) []core.ParagraphUnit {
	var units []core.ParagraphUnit
	for _, piece := range paragraphTag.Split(textAsHTML, -1) {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		units = append(units, core.ParagraphUnit{Index: len(units), Text: piece})
	}
	return units
}
