package match

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CanonicalDir normalizes a directory path for use as a cache key: absolute,
// symlinks resolved when the target exists, cleaned, no trailing separator.
// Two spellings of the same directory (trailing slash, relative prefix,
// symlinked parent) resolve to the same key. Aliasing that only a
// case-insensitive filesystem knows about is not resolved beyond what
// EvalSymlinks reports.
func CanonicalDir(rawPath string) (string, error) {
	abs, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The path may no longer exist (clear-cache for a deleted source,
		// filters naming removed directories). Fall back to the cleaned
		// absolute form.
		resolved = filepath.Clean(abs)
	}

	if resolved != string(filepath.Separator) {
		resolved = strings.TrimRight(resolved, string(filepath.Separator))
	}
	return resolved, nil
}

// ResolveDir canonicalizes rawPath and verifies it names an existing
// directory. Validation failures here are fatal for the operation.
func ResolveDir(rawPath string) (string, error) {
	dir, err := CanonicalDir(rawPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}
	return dir, nil
}
