// Package render: JSON renderer.
// Builds structured JSON output from a fragment and its metadata. Structure
// is read from the fragment's markup with goquery; no content-specific fields
// are inferred.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/mailfrag/core"
)

// JSONRenderer produces structured JSON output from a fragment.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render converts a fragment and metadata into the JSON structure.
func (r *JSONRenderer) Render(fragment string, meta core.FragmentMetadata) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing fragment: %w", err)
	}

	markdown, err := toMarkdown(fragment)
	if err != nil {
		return nil, err
	}

	out := core.FragmentJSON{
		Metadata: meta,
		Content: core.FragmentContent{
			HTML:     fragment,
			Text:     strings.Join(strings.Fields(doc.Text()), " "),
			Markdown: markdown,
		},
		Structure: core.FragmentStructure{
			Links:  extractLinks(doc),
			Tables: doc.Find("table").Length(),
			Images: doc.Find("img").Length(),
		},
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

func extractLinks(doc *goquery.Document) []core.Link {
	links := []core.Link{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, core.Link{
			Text: strings.TrimSpace(s.Text()),
			Href: href,
		})
	})
	return links
}
