// Package render: PDF renderer.
// Converts a fragment to Markdown and lays it out with gofpdf.
// Headings, paragraphs, code blocks and lists are styled; images are not drawn.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/mailfrag/core"
)

var (
	numbered   = regexp.MustCompile(`^\d+\.\s`)
	italic     = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCode = regexp.MustCompile("`([^`]+)`")
	mdLink     = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	mdImage    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
)

var headingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// PDFRenderer renders fragments as PDF documents.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the fragment into PDF bytes.
func (r *PDFRenderer) Render(fragment string, meta core.FragmentMetadata) ([]byte, error) {
	markdown, err := toMarkdown(fragment)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if meta.Subject != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, tr(meta.Subject), "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Fragment %d of %d", meta.Position, meta.Total)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	inCode := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			pdf.Ln(2)
			continue
		}
		if inCode {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, tr(line), "", "L", true)
			continue
		}

		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			writeHeading(pdf, tr(cleanInline(strings.TrimLeft(trimmed, "# "))), level)
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+cleanInline(trimmed[2:])), "", "L", false)
		case numbered.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInline(trimmed)), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInline(trimmed)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func writeHeading(pdf *gofpdf.Fpdf, text string, level int) {
	size, ok := headingSizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInline strips inline Markdown markers, keeping link and image text.
func cleanInline(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italic.ReplaceAllString(text, " $1 ")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = mdImage.ReplaceAllString(text, "$1")
	text = mdLink.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
