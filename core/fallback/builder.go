// Package fallback builds a plain-text rendition for messages that only
// carry HTML. The embedded HTML document is converted to text and the
// message is rewritten as multipart/alternative so a second pipeline pass can
// process it normally.
package fallback

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/emersion/go-message"

	"github.com/gaurav-prasanna/mailfrag/core"
)

const (
	htmlOpen  = "<html"
	htmlClose = "</html>"
)

// skipHeaders are replaced by the rewritten body's own headers.
var skipHeaders = map[string]bool{
	"Content-Type":              true,
	"Content-Transfer-Encoding": true,
}

// ExtractHTML returns the embedded HTML document of a raw message: from the
// first "<html" through the last "</html>", inclusive.
func ExtractHTML(raw string) (string, bool) {
	start := strings.Index(raw, htmlOpen)
	end := strings.LastIndex(raw, htmlClose)
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return raw[start : end+len(htmlClose)], true
}

// Build rewrites msg with a derived text/plain part next to its embedded
// HTML. The original headers are kept, except the content headers which the
// new body replaces. Without attachments the body is multipart/alternative;
// otherwise it is multipart/mixed holding the alternative part followed by
// every original attachment, Content-ID and disposition included.
func Build(msg *core.Message) ([]byte, error) {
	doc, ok := ExtractHTML(string(msg.Raw))
	if !ok {
		return nil, core.ErrNoHTML
	}

	text, err := HTMLToText(doc)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to text: %w", err)
	}

	orig, err := message.Read(bytes.NewReader(msg.Raw))
	if err != nil && orig == nil {
		return nil, fmt.Errorf("%w: %v", core.ErrContainerParse, err)
	}

	var header message.Header
	fields := orig.Header.Fields()
	for fields.Next() {
		if skipHeaders[fields.Key()] {
			continue
		}
		header.Add(fields.Key(), fields.Value())
	}
	if !header.Has("Mime-Version") {
		header.Set("MIME-Version", "1.0")
	}
	if len(msg.Attachments) == 0 {
		header.SetContentType("multipart/alternative", nil)
	} else {
		header.SetContentType("multipart/mixed", nil)
	}

	var buf bytes.Buffer
	w, err := message.CreateWriter(&buf, header)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}

	alt := w
	if len(msg.Attachments) > 0 {
		var h message.Header
		h.SetContentType("multipart/alternative", nil)
		if alt, err = w.CreatePart(h); err != nil {
			return nil, fmt.Errorf("creating alternative part: %w", err)
		}
	}
	parts := []struct {
		mediaType string
		body      string
	}{
		{"text/plain", text},
		{"text/html", doc},
	}
	for _, p := range parts {
		if err := writePart(alt, p.mediaType, p.body); err != nil {
			return nil, err
		}
	}
	if alt != w {
		if err := alt.Close(); err != nil {
			return nil, fmt.Errorf("closing alternative part: %w", err)
		}
	}

	for _, att := range msg.Attachments {
		if err := writeAttachment(w, att); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(w *message.Writer, mediaType, body string) error {
	var h message.Header
	h.SetContentType(mediaType, map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "7bit")

	pw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating %s part: %w", mediaType, err)
	}
	if _, err := io.WriteString(pw, body); err != nil {
		return fmt.Errorf("writing %s part: %w", mediaType, err)
	}
	return pw.Close()
}

// writeAttachment re-emits an attachment as a base64 part.
func writeAttachment(w *message.Writer, att core.Attachment) error {
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var h message.Header
	var typeParams, dispParams map[string]string
	if att.Filename != "" {
		typeParams = map[string]string{"name": att.Filename}
		dispParams = map[string]string{"filename": att.Filename}
	}
	h.SetContentType(contentType, typeParams)
	if att.Inline {
		h.SetContentDisposition("inline", dispParams)
	} else {
		h.SetContentDisposition("attachment", dispParams)
	}
	if att.ContentID != "" {
		h.Set("Content-Id", "<"+att.ContentID+">")
	}
	h.Set("Content-Transfer-Encoding", "base64")

	pw, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating %s attachment: %w", contentType, err)
	}
	if _, err := pw.Write(att.Content); err != nil {
		return fmt.Errorf("writing %s attachment: %w", contentType, err)
	}
	return pw.Close()
}

// ModifiedPath names the rewritten message written alongside the original.
func ModifiedPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_modified.eml"
}
