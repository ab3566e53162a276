// Package security validates file paths and names that come from users.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// canonical returns the absolute, symlink-resolved form of path. A path
// that does not exist yet is resolved through its deepest existing
// ancestor, so a symlinked parent cannot smuggle it elsewhere.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rest, _ := filepath.Rel(dir, abs)
			return filepath.Join(resolved, rest), nil
		}
		if dir == filepath.Dir(dir) {
			return abs, nil
		}
	}
}

// ValidatePathWithin returns an error unless path, after resolving ".."
// and symlinks, lies inside dir.
func ValidatePathWithin(path, dir string) error {
	target, err := canonical(path)
	if err != nil {
		return err
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve directory: %w", err)
	}
	if root, err = filepath.EvalSymlinks(root); err != nil {
		return fmt.Errorf("failed to resolve directory symlinks: %w", err)
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return fmt.Errorf("path is outside %s: %w", dir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("path traversal detected: %s escapes %s", path, dir)
	}
	return nil
}

// ValidateOutputPath accepts paths inside the temp directory or the
// current working directory, the only places the CLI writes diagrams.
func ValidateOutputPath(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	dirs := []string{os.TempDir(), cwd}
	for _, dir := range dirs {
		if ValidatePathWithin(path, dir) == nil {
			return nil
		}
	}
	return fmt.Errorf("output path must be within one of %v", dirs)
}

// SanitizeFilename keeps ASCII letters, digits, '.', '_' and '-', collapses
// every other run of characters into one '_' and caps the length at 128.
// It never returns an empty string.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	pending := false
	for _, r := range s {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-'
		if !ok {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('_')
		}
		pending = false
		if b.Len() >= maxLen {
			break
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
