package render

import (
	"fmt"

	"github.com/gaurav-prasanna/mailfrag/core"
)

// Output format names accepted by Select.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatPDF      = "pdf"
)

// Formats lists every supported output format.
var Formats = []string{FormatHTML, FormatMarkdown, FormatJSON, FormatPDF}

// Select creates the Renderer for a format name.
func Select(format string) (core.Renderer, error) {
	switch format {
	case FormatHTML, "":
		return NewHTMLRenderer(), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	case FormatPDF:
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}
