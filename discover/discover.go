// Package discover finds the message files to process in --all mode.
// Directories are walked breadth-first; discovery is kept separate from the
// extraction pipeline.
package discover

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover returns every message file below root, breadth-first with entries
// sorted by name inside each directory. Hidden directories are skipped.
func Discover(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	dirs := newWorklist()
	files := newWorklist()
	dirs.Push(root)

	for {
		if err := ctx.Err(); err != nil {
			return files.Paths(), err
		}

		dir, ok := dirs.Pop()
		if !ok {
			break
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return files.Paths(), fmt.Errorf("listing %s: %w", dir, err)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				if !IsHidden(e.Name()) {
					dirs.Push(path)
				}
			case IsMessageFile(path):
				files.Push(path)
			}
		}
	}

	return files.Paths(), nil
}
