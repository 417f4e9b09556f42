package fallback

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipped elements contribute no text. Images are ignored, links keep only
// their text.
var skipped = map[string]bool{
	"head": true, "title": true, "script": true, "style": true,
	"noscript": true, "template": true, "img": true, "svg": true,
}

// paragraphs are separated from their surroundings by a blank line.
var paragraphs = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"table": true, "blockquote": true, "pre": true, "ul": true, "ol": true,
}

// lines start on a line of their own.
var lines = map[string]bool{
	"div": true, "li": true, "tr": true, "section": true, "article": true,
	"header": true, "footer": true, "center": true, "hr": true, "dt": true, "dd": true,
}

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\n\f\x{00a0}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText converts an HTML document to plain text without word wrapping.
// Block elements break lines, paragraph-level elements are separated by a
// blank line, and whitespace inside a line is collapsed.
func HTMLToText(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n)
	}
	return tidy(b.String()), nil
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if skipped[n.Data] {
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	switch {
	case n.Type != html.ElementNode:
	case n.Data == "br":
		b.WriteString("\n")
		return
	case paragraphs[n.Data]:
		b.WriteString("\n\n")
		defer b.WriteString("\n\n")
	case lines[n.Data]:
		b.WriteString("\n")
		defer b.WriteString("\n")
	case n.Data == "td" || n.Data == "th":
		defer b.WriteString(" ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// tidy trims every line and collapses runs of blank lines.
func tidy(s string) string {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	s = strings.Join(parts, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
