package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"rawmatch/internal/scan"
)

func mkFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func paths(t *testing.T, e *scan.OSFileEnumerator, dir string, recursive bool, exts []string) []string {
	t.Helper()
	stats, err := e.Enumerate(dir, recursive, exts)
	if err != nil {
		t.Fatalf("Enumerate() error = %v", err)
	}
	got := make([]string, len(stats))
	for i, st := range stats {
		got[i] = st.Path
	}
	return got
}

func TestEnumerate_FiltersByExtensionCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	lower := mkFile(t, dir, "a.cr3")
	upper := mkFile(t, dir, "B.CR3")
	mkFile(t, dir, "notes.txt")
	mkFile(t, dir, "noext")

	e := scan.NewOSFileEnumerator(nil)
	got := paths(t, e, dir, false, []string{"CR3"})

	want := []string{lower, upper}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Enumerate() = %v, want %v", got, want)
	}
}

func TestEnumerate_ExtensionSpellings(t *testing.T) {
	dir := t.TempDir()
	mkFile(t, dir, "a.cr3")

	e := scan.NewOSFileEnumerator(nil)
	for _, ext := range []string{"cr3", ".cr3", "CR3", " cr3 "} {
		if got := paths(t, e, dir, false, []string{ext}); len(got) != 1 {
			t.Errorf("extension %q matched %d files, want 1", ext, len(got))
		}
	}
}

func TestEnumerate_Recursion(t *testing.T) {
	dir := t.TempDir()
	top := mkFile(t, dir, "top.cr3")
	nested := mkFile(t, dir, filepath.Join("sub", "deep", "nested.cr3"))

	e := scan.NewOSFileEnumerator(nil)

	t.Run("recursive descends", func(t *testing.T) {
		got := paths(t, e, dir, true, []string{"cr3"})
		if len(got) != 2 || got[0] != nested || got[1] != top {
			t.Errorf("Enumerate() = %v, want [%s %s]", got, nested, top)
		}
	})

	t.Run("non-recursive stays at top level", func(t *testing.T) {
		got := paths(t, e, dir, false, []string{"cr3"})
		if len(got) != 1 || got[0] != top {
			t.Errorf("Enumerate() = %v, want [%s]", got, top)
		}
	})
}

func TestEnumerate_IgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	keep := mkFile(t, dir, "keep.cr3")
	mkFile(t, dir, "skip_me.cr3")
	mkFile(t, dir, filepath.Join("trash", "binned.cr3"))

	e := scan.NewOSFileEnumerator([]string{"skip_*", "trash/*"})
	got := paths(t, e, dir, true, []string{"cr3"})

	if len(got) != 1 || got[0] != keep {
		t.Errorf("Enumerate() = %v, want [%s]", got, keep)
	}
}

func TestEnumerate_SkipsIrregularFiles(t *testing.T) {
	dir := t.TempDir()
	real := mkFile(t, dir, "real.cr3")
	if err := os.Symlink(real, filepath.Join(dir, "link.cr3")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	e := scan.NewOSFileEnumerator(nil)
	got := paths(t, e, dir, false, []string{"cr3"})
	if len(got) != 1 || got[0] != real {
		t.Errorf("Enumerate() = %v, want regular file only", got)
	}
}

func TestEnumerate_MissingDirectory(t *testing.T) {
	e := scan.NewOSFileEnumerator(nil)
	missing := filepath.Join(t.TempDir(), "absent")
	for _, recursive := range []bool{true, false} {
		if _, err := e.Enumerate(missing, recursive, []string{"cr3"}); err == nil {
			t.Errorf("Enumerate(recursive=%v) on missing directory: expected error", recursive)
		}
	}
}

func TestEnumerate_SortedOutput(t *testing.T) {
	dir := t.TempDir()
	c := mkFile(t, dir, "c.cr3")
	a := mkFile(t, dir, "a.cr3")
	b := mkFile(t, dir, "b.cr3")
	_ = c

	e := scan.NewOSFileEnumerator(nil)
	got := paths(t, e, dir, false, []string{"cr3"})
	if len(got) != 3 || got[0] != a || got[1] != b {
		t.Errorf("Enumerate() = %v, want lexical order", got)
	}
}
