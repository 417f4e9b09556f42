// Package dom flattens a parsed HTML document into a document-order list of
// element nodes and provides bounded ancestor lookup.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Index is the ordered (preorder) list of element nodes of one document.
// It is built once per message and never mutated; text lookups are memoized.
type Index struct {
	doc      *goquery.Document
	elements []*html.Node
	texts    []*string
}

// Build parses markup and indexes every element in document order,
// including the implied html, head and body elements.
func Build(markup string) (*Index, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	nodes := doc.Find("*").Nodes
	return &Index{
		doc:      doc,
		elements: nodes,
		texts:    make([]*string, len(nodes)),
	}, nil
}

// Len returns the number of indexed elements.
func (x *Index) Len() int {
	return len(x.elements)
}

// Element returns the i-th element in document order.
func (x *Index) Element(i int) *html.Node {
	return x.elements[i]
}

// Text returns the text content of the i-th element: the concatenation of
// all descendant text nodes.
func (x *Index) Text(i int) string {
	if t := x.texts[i]; t != nil {
		return *t
	}
	t := x.doc.FindNodes(x.elements[i]).Text()
	x.texts[i] = &t
	return t
}

// Language returns the lang attribute of the root html element, or "".
func (x *Index) Language() string {
	lang, _ := x.doc.Find("html").First().Attr("lang")
	return lang
}

// Ancestors returns node followed by its successive parents, at most depth
// entries. Fewer entries are returned when the document root is reached
// first. The document node itself counts as a parent.
func Ancestors(node *html.Node, depth int) []*html.Node {
	var chain []*html.Node
	for n := node; n != nil && depth > 0; n = n.Parent {
		chain = append(chain, n)
		depth--
	}
	return chain
}

// InnerHTML serializes the children of an element node. It reports false for
// nil or non-element nodes, which have no inner markup of their own.
func InnerHTML(node *html.Node) (string, bool) {
	if node == nil || node.Type != html.ElementNode {
		return "", false
	}
	var b strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", false
		}
	}
	return b.String(), true
}
