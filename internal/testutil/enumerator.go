package testutil

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"rawmatch/internal/match"
)

// MockFileEnumerator serves directory listings from memory. Tests add files
// per directory; Enumerate returns them sorted by path, ignoring the
// recursion flag and extension set (tests register exactly what a scan would
// find).
type MockFileEnumerator struct {
	mu    sync.Mutex
	files map[string]map[string]match.FileStat
	errs  map[string]error
}

// NewMockFileEnumerator creates an empty mock enumerator.
func NewMockFileEnumerator() *MockFileEnumerator {
	return &MockFileEnumerator{
		files: make(map[string]map[string]match.FileStat),
		errs:  make(map[string]error),
	}
}

// AddFile registers a file under dir.
func (m *MockFileEnumerator) AddFile(dir, path string, size int64, modifiedAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files[dir] == nil {
		m.files[dir] = make(map[string]match.FileStat)
	}
	m.files[dir][path] = match.FileStat{Path: path, Size: size, ModifiedAt: modifiedAt}
}

// RemoveFile unregisters a file under dir.
func (m *MockFileEnumerator) RemoveFile(dir, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files[dir], path)
}

// SetError makes enumeration of dir fail.
func (m *MockFileEnumerator) SetError(dir string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[dir] = err
}

func (m *MockFileEnumerator) Enumerate(dir string, _ bool, _ []string) ([]match.FileStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[dir]; ok {
		return nil, err
	}
	entries, ok := m.files[dir]
	if !ok {
		return nil, fmt.Errorf("no such directory: %s", dir)
	}

	stats := make([]match.FileStat, 0, len(entries))
	for _, st := range entries {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Path < stats[j].Path })
	return stats, nil
}
