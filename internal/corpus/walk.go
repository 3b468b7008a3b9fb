// Package corpus enumerates the documents under a search root and guards access to them.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDirectoryNotFound is returned when the search root does not exist or is not a directory.
var ErrDirectoryNotFound = errors.New("search directory not found")

// VisitFunc is called for every candidate file. Returning fs.SkipAll stops the walk
// without error; any other non-nil error aborts it.
type VisitFunc func(path string, entry fs.DirEntry) error

// ErrorFunc receives per-entry errors (unreadable directories and the like); the walk continues.
type ErrorFunc func(path string, err error)

// Walker enumerates candidate files under a root.
type Walker struct {
	Recursive  bool
	Extensions []string
	OnError    ErrorFunc
}

// CheckRoot returns ErrDirectoryNotFound, wrapped with root, when root is not an existing directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDirectoryNotFound, root)
		}
		return fmt.Errorf("stat search directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, root)
	}
	return nil
}

// Walk calls visit for each regular file under root with a matching extension, in
// lexical order. Subdirectories are descended only when Recursive is set.
func (w *Walker) Walk(root string, visit VisitFunc) error {
	if err := CheckRoot(root); err != nil {
		return err
	}
	if !w.Recursive {
		return w.walkFlat(root, visit)
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.reportError(path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !w.Match(d) {
			return nil
		}
		return visit(path, d)
	})
	if errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (w *Walker) walkFlat(root string, visit VisitFunc) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read search directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() || !w.Match(e) {
			continue
		}
		if err := visit(filepath.Join(root, e.Name()), e); err != nil {
			if errors.Is(err, fs.SkipAll) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Match reports whether entry is a file with one of the configured extensions.
func (w *Walker) Match(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	return HasExtension(entry.Name(), w.Extensions)
}

// HasExtension reports whether name ends in one of exts, ignoring case.
func HasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func (w *Walker) reportError(path string, err error) {
	if w.OnError != nil {
		w.OnError(path, err)
	}
}
