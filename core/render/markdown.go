// Package render: Markdown renderer.
// Converts a fragment to Markdown with html-to-markdown.
package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/mailfrag/core"
)

// MarkdownRenderer converts fragments to Markdown.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the fragment into Markdown.
func (r *MarkdownRenderer) Render(fragment string, meta core.FragmentMetadata) ([]byte, error) {
	md, err := toMarkdown(fragment)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// toMarkdown is shared by the renderers that derive text from a fragment.
func toMarkdown(fragment string) (string, error) {
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return md, nil
}
