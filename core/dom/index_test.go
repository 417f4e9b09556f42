package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestBuild_DocumentOrder(t *testing.T) {
	idx, err := Build(`<html lang="en"><body><div id="a"><p>one</p></div><div id="b"><span>two</span></div></body></html>`)
	require.NoError(t, err)

	var names []string
	for i := 0; i < idx.Len(); i++ {
		names = append(names, idx.Element(i).Data)
	}
	assert.Equal(t, []string{"html", "head", "body", "div", "p", "div", "span"}, names)
	assert.Equal(t, "en", idx.Language())
}

func TestIndex_Text(t *testing.T) {
	idx, err := Build(`<div><b>Hello</b> <!-- hidden --><i>World</i></div>`)
	require.NoError(t, err)

	// html, head, body, div, b, i
	require.Equal(t, 6, idx.Len())
	assert.Equal(t, "Hello World", idx.Text(3))
	assert.Equal(t, "Hello", idx.Text(4))
	// Memoized lookups return the same value.
	assert.Equal(t, idx.Text(3), idx.Text(3))
}

func TestAncestors(t *testing.T) {
	idx, err := Build(`<div><section><p><em>x</em></p></section></div>`)
	require.NoError(t, err)

	em := idx.Element(idx.Len() - 1)
	require.Equal(t, "em", em.Data)

	chain := Ancestors(em, 3)
	require.Len(t, chain, 3)
	assert.Equal(t, "em", chain[0].Data)
	assert.Equal(t, "p", chain[1].Data)
	assert.Equal(t, "section", chain[2].Data)

	// em, p, section, div, body, html, document: the chain stops at the root.
	full := Ancestors(em, 20)
	require.Len(t, full, 7)
	assert.Equal(t, html.DocumentNode, full[6].Type)

	assert.Empty(t, Ancestors(em, 0))
}

func TestInnerHTML(t *testing.T) {
	idx, err := Build(`<table><tbody><tr><td>a<b>b</b></td></tr></tbody></table>`)
	require.NoError(t, err)

	var td *html.Node
	for i := 0; i < idx.Len(); i++ {
		if idx.Element(i).Data == "td" {
			td = idx.Element(i)
		}
	}
	require.NotNil(t, td)

	inner, ok := InnerHTML(td)
	require.True(t, ok)
	assert.Equal(t, "a<b>b</b>", inner)

	_, ok = InnerHTML(td.FirstChild) // text node
	assert.False(t, ok)
	_, ok = InnerHTML(nil)
	assert.False(t, ok)
}
