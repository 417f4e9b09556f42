package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/mailfrag/core"
)

const fragment = `<h2>Offers</h2><p>See <a href="https://example.com/deal">the deal</a> today.</p>` +
	`<table><tr><td>one</td></tr></table><ul><li>first</li><li>second</li></ul>`

var meta = core.FragmentMetadata{
	Subject:     "Weekly Update",
	Source:      "weekly.eml",
	Position:    2,
	Total:       3,
	Language:    "en",
	ExtractedAt: "2026-01-01T00:00:00Z",
}

func TestSelect(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", ".html"},
		{FormatHTML, ".html"},
		{FormatMarkdown, ".md"},
		{FormatJSON, ".json"},
		{FormatPDF, ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := Select(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, r.Extension())
		})
	}

	_, err := Select("docx")
	assert.Error(t, err)
}

func TestHTMLRenderer(t *testing.T) {
	out, err := NewHTMLRenderer().Render(fragment, meta)
	require.NoError(t, err)
	assert.Equal(t, fragment, string(out))
}

func TestMarkdownRenderer(t *testing.T) {
	out, err := NewMarkdownRenderer().Render(fragment, meta)
	require.NoError(t, err)
	md := string(out)
	assert.Contains(t, md, "## Offers")
	assert.Contains(t, md, "[the deal](https://example.com/deal)")
	assert.Contains(t, md, "first")
}

func TestJSONRenderer(t *testing.T) {
	out, err := NewJSONRenderer().Render(fragment, meta)
	require.NoError(t, err)

	var got core.FragmentJSON
	require.NoError(t, json.Unmarshal(out, &got))

	assert.Equal(t, meta, got.Metadata)
	assert.Equal(t, fragment, got.Content.HTML)
	assert.Contains(t, got.Content.Text, "See the deal today.")
	assert.Contains(t, got.Content.Markdown, "## Offers")
	assert.Equal(t, []core.Link{{Text: "the deal", Href: "https://example.com/deal"}}, got.Structure.Links)
	assert.Equal(t, 1, got.Structure.Tables)
	assert.Equal(t, 0, got.Structure.Images)
}

func TestJSONRenderer_NoLinks(t *testing.T) {
	out, err := NewJSONRenderer().Render("<p>plain</p>", meta)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"links": []`)
}

func TestPDFRenderer(t *testing.T) {
	out, err := NewPDFRenderer().Render(fragment, meta)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestCleanInline(t *testing.T) {
	assert.Equal(t, "bold and link", cleanInline("**bold** and [link](https://x.test)"))
	assert.Equal(t, "use code here", cleanInline("use `code` here"))
	assert.Equal(t, "logo", cleanInline("![logo](logo.png)"))
}
