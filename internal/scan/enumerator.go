package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"rawmatch/internal/match"
)

// OSFileEnumerator is the real-filesystem implementation of
// match.FileEnumerator. Enumeration is pure: it holds no per-directory state
// and the same directory contents always produce the same listing.
type OSFileEnumerator struct {
	ignore *IgnoreMatcher
}

// NewOSFileEnumerator creates an enumerator. ignorePatterns follow the
// matcher's glob rules and may be empty.
func NewOSFileEnumerator(ignorePatterns []string) *OSFileEnumerator {
	return &OSFileEnumerator{ignore: NewIgnoreMatcher(ignorePatterns)}
}

// Enumerate lists regular files under dir whose extension is in extensions,
// matched case-insensitively. A directory that cannot be read at all is an
// error; this is the fail-fast boundary for a whole run.
func (e *OSFileEnumerator) Enumerate(dir string, recursive bool, extensions []string) ([]match.FileStat, error) {
	wanted := extensionSet(extensions)

	var stats []match.FileStat
	collect := func(path string, info fs.FileInfo) {
		stats = append(stats, match.FileStat{
			Path:       path,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	if recursive {
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if !wanted[normalizedExt(p)] {
				return nil
			}
			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return fmt.Errorf("calculating relative path: %w", err)
			}
			if e.ignore.Match(rel) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("stat %s: %w", p, err)
			}
			collect(p, info)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			if !wanted[normalizedExt(entry.Name())] {
				continue
			}
			if e.ignore.Match(entry.Name()) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
			}
			collect(filepath.Join(dir, entry.Name()), info)
		}
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })
	return stats, nil
}

// extensionSet folds the configured extensions into a lookup of leading-dot,
// lower-case forms, so "CR3", "cr3" and ".cr3" all mean the same thing.
func extensionSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

func normalizedExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Compile-time check that OSFileEnumerator implements match.FileEnumerator.
var _ match.FileEnumerator = (*OSFileEnumerator)(nil)
