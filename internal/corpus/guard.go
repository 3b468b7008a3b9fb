package corpus

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a requested path escapes the search root.
var ErrOutsideRoot = errors.New("path outside search directory")

// Resolve returns the absolute, symlink-free form of requested if it lies inside root.
// Relative paths are taken relative to root.
func Resolve(root, requested string) (string, error) {
	absRoot, err := canonical(root)
	if err != nil {
		return "", fmt.Errorf("resolve search directory: %w", err)
	}
	if !filepath.IsAbs(requested) {
		requested = filepath.Join(absRoot, requested)
	}
	target, err := canonical(requested)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, requested)
	}
	return target, nil
}

// canonical makes path absolute and resolves symlinks. For a path that does not
// exist, only its parent directory is resolved.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		return filepath.Join(dir, filepath.Base(abs)), nil
	}
	return abs, nil
}
