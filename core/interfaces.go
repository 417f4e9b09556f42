// Package core defines the shared types and stage interfaces for mailfrag.
// Each stage of the pipeline is a small, testable interface or function set.
package core

import (
	"context"
	"errors"
)

// Sentinel errors shared across stages. Callers wrap them with context and
// match them with errors.Is.
var (
	// ErrContainerParse marks a message file that could not be parsed. It is
	// fatal for that file only.
	ErrContainerParse = errors.New("malformed message container")

	// ErrNoRendition is returned when a message synthesized by the fallback
	// builder still carries no plain-text rendition.
	ErrNoRendition = errors.New("no plain-text rendition")

	// ErrNoHTML is returned by the fallback builder when the raw message holds
	// no embedded <html> document.
	ErrNoHTML = errors.New("no HTML content found in message")
)

// Attachment is one binary part of a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
	ContentID   string // without angle brackets
	Inline      bool   // carried a Content-ID or inline disposition
}

// Message is a parsed email message.
type Message struct {
	Subject     string
	Attachments []Attachment

	// HTML is the rich rendition. Empty when the message has none.
	HTML string
	// Text is the plain-text rendition. Empty when the message has none.
	Text string
	// TextAsHTML is the plain-text rendition re-expressed as paragraphs of
	// HTML. Empty iff the message has no plain-text part.
	TextAsHTML string

	// Raw is the full message text, used only by the fallback builder.
	Raw []byte
	// Source is the file the message was read from.
	Source string
	// Derived is true for messages synthesized by the fallback builder.
	Derived bool
}

// HasRendition reports whether a plain-text-as-HTML rendition exists.
func (m *Message) HasRendition() bool {
	return m.TextAsHTML != ""
}

// ParagraphUnit is one plain-text paragraph, with its position in the
// paragraph sequence.
type ParagraphUnit struct {
	Index int
	Text  string
}

// ParagraphMatch is the outcome of aligning one paragraph. ElementIndex is -1
// when no element matched; Fragment is nil when nothing could be extracted.
type ParagraphMatch struct {
	ParagraphIndex int
	ElementIndex   int
	Fragment       *string
}

// FragmentMetadata describes one output fragment for the renderers.
type FragmentMetadata struct {
	Subject     string `json:"subject"`
	Source      string `json:"source"`
	Position    int    `json:"position"`
	Total       int    `json:"total"`
	Language    string `json:"language"`
	ExtractedAt string `json:"extracted_at"` // RFC 3339
}

// Link is a hyperlink found in a fragment.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// FragmentContent holds a fragment in the formats the JSON output carries.
type FragmentContent struct {
	HTML     string `json:"html"`
	Text     string `json:"text"`
	Markdown string `json:"markdown"`
}

// FragmentStructure holds structural counts parsed from a fragment.
type FragmentStructure struct {
	Links  []Link `json:"links"`
	Tables int    `json:"tables"`
	Images int    `json:"images"`
}

// FragmentJSON is the complete JSON output for a single fragment.
type FragmentJSON struct {
	Metadata  FragmentMetadata  `json:"metadata"`
	Content   FragmentContent   `json:"content"`
	Structure FragmentStructure `json:"structure"`
}

// Loader reads every message stored at a path.
type Loader interface {
	Load(ctx context.Context, path string) ([]*Message, error)
}

// Renderer converts a sanitized fragment into a final output format.
type Renderer interface {
	Render(fragment string, meta FragmentMetadata) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".md").
	Extension() string
}
