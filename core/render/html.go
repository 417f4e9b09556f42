// Package render provides output renderers for extracted fragments.
// This file implements the HTML renderer, the default, which writes the
// sanitized fragment as-is.
package render

import (
	"github.com/gaurav-prasanna/mailfrag/core"
)

// HTMLRenderer writes fragments unchanged.
type HTMLRenderer struct{}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Render returns the fragment as bytes (passthrough).
func (r *HTMLRenderer) Render(fragment string, meta core.FragmentMetadata) ([]byte, error) {
	return []byte(fragment), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
