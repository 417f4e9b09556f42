// Package clean post-processes extracted fragments: ordered deduplication,
// inline image stripping and textual sanitization.
package clean

import "regexp"

var imageTag = regexp.MustCompile(`(?i)<img\b[^>]*>(?:</img>)?`)

// Dedupe drops nil fragments and repeated fragments, keeping the first
// occurrence of each distinct raw string in order. Inline image markup is then
// stripped from the survivors; images are saved separately as attachments.
// Fragments left empty by stripping are dropped.
//
// Duplicates are detected before stripping, so two fragments differing only
// by an image both survive.
func Dedupe(fragments []*string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range fragments {
		if f == nil || seen[*f] {
			continue
		}
		seen[*f] = true
		if stripped := StripImages(*f); stripped != "" {
			out = append(out, stripped)
		}
	}
	return out
}

// StripImages removes self-closing and paired <img> markup.
func StripImages(fragment string) string {
	return imageTag.ReplaceAllString(fragment, "")
}
