// Package discover: file filtering rules.
package discover

import (
	"path/filepath"
	"strings"
)

// modifiedSuffix marks messages rewritten by the fallback builder. They are
// regenerated on every run, so discovery never picks them up.
const modifiedSuffix = "_modified.eml"

// messageExtensions are the file extensions holding messages.
var messageExtensions = map[string]bool{
	".eml":  true,
	".mbox": true,
}

// IsMessageFile reports whether path names a message file to process.
func IsMessageFile(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, modifiedSuffix) {
		return false
	}
	return messageExtensions[filepath.Ext(name)]
}

// IsHidden reports whether a directory entry name is hidden.
func IsHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// NormalizePath cleans a path for deduplication.
func NormalizePath(path string) string {
	return filepath.Clean(path)
}
