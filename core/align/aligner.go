// Package align matches plain-text paragraphs to elements of the HTML
// rendition and extracts each paragraph's containing block.
//
// Matching walks the document-order element list with a forward-only cursor.
// Paragraph order is assumed identical in both renditions, so paragraph i+1
// never starts scanning before paragraph i has finished. The loop is
// sequential on purpose and must stay that way.
package align

import (
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/mailfrag/core"
	"github.com/gaurav-prasanna/mailfrag/core/dom"
	"github.com/gaurav-prasanna/mailfrag/core/normalize"
)

// DefaultDepth is the number of parent steps from a matched element up to
// its containing block. Rich email markup usually nests the matched leaf a
// few wrapper levels (table, row, cell...) below the meaningful block; the
// value is tuned for that pattern and match quality drops for markup nested
// differently.
const DefaultDepth = 6

// Aligner matches paragraphs to elements.
type Aligner struct {
	Depth  int
	Logger zerolog.Logger
}

// New creates an Aligner. A depth below 1 falls back to DefaultDepth.
func New(depth int, logger zerolog.Logger) *Aligner {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Aligner{Depth: depth, Logger: logger}
}

// Align returns one match per paragraph, in paragraph order.
func (a *Aligner) Align(paragraphs []core.ParagraphUnit, idx *dom.Index) []core.ParagraphMatch {
	matches := make([]core.ParagraphMatch, 0, len(paragraphs))
	keys := newElementKeys(idx)
	cursor := 0

	for _, p := range paragraphs {
		m := core.ParagraphMatch{ParagraphIndex: p.Index, ElementIndex: -1}

		key := normalize.Normalize(p.Text)
		if normalize.IsEmpty(key) {
			a.notFound(p.Index, key)
			matches = append(matches, m)
			continue
		}

		k := keys.scan(cursor, key)
		if k < 0 {
			a.notFound(p.Index, key)
			matches = append(matches, m)
			continue
		}

		// Resume at k, not k+1: one block may serve several paragraphs.
		cursor = k
		m.ElementIndex = k
		m.Fragment = a.extract(idx, k)
		if m.Fragment == nil {
			a.Logger.Debug().
				Int("paragraph", p.Index).
				Int("element", k).
				Int("depth", a.Depth).
				Msg("matched element has no containing block at depth")
		}
		matches = append(matches, m)
	}

	return matches
}

// elementKeys memoizes the normalized text of each element for one pass.
type elementKeys struct {
	idx  *dom.Index
	keys []string
	done []bool
}

func newElementKeys(idx *dom.Index) *elementKeys {
	return &elementKeys{
		idx:  idx,
		keys: make([]string, idx.Len()),
		done: make([]bool, idx.Len()),
	}
}

func (e *elementKeys) at(i int) string {
	if !e.done[i] {
		e.keys[i] = normalize.Normalize(e.idx.Text(i))
		e.done[i] = true
	}
	return e.keys[i]
}

// scan returns the index of the first element at or after from whose key
// equals key, or -1.
func (e *elementKeys) scan(from int, key string) int {
	for i := from; i < e.idx.Len(); i++ {
		if e.at(i) == key {
			return i
		}
	}
	return -1
}

// extract returns the inner markup of the ancestor Depth levels above the
// k-th element, or nil when that ancestor is missing or not an element.
func (a *Aligner) extract(idx *dom.Index, k int) *string {
	chain := dom.Ancestors(idx.Element(k), a.Depth+1)
	if len(chain) <= a.Depth {
		return nil
	}
	inner, ok := dom.InnerHTML(chain[a.Depth])
	if !ok {
		return nil
	}
	return &inner
}

func (a *Aligner) notFound(paragraph int, key string) {
	a.Logger.Warn().
		Int("paragraph", paragraph).
		Str("normalized", key).
		Msg("element not found")
}

// Fragments reduces matches to their fragments, keeping nil entries.
func Fragments(matches []core.ParagraphMatch) []*string {
	out := make([]*string, len(matches))
	for i, m := range matches {
		out[i] = m.Fragment
	}
	return out
}
