package match_test

import (
	"os"
	"path/filepath"
	"testing"

	"rawmatch/internal/match"
)

func TestCanonicalDir(t *testing.T) {
	base := t.TempDir()
	real, err := match.CanonicalDir(base)
	if err != nil {
		t.Fatalf("CanonicalDir(%s) error = %v", base, err)
	}

	t.Run("trailing separator trimmed", func(t *testing.T) {
		got, err := match.CanonicalDir(real + string(filepath.Separator))
		if err != nil {
			t.Fatalf("CanonicalDir() error = %v", err)
		}
		if got != real {
			t.Errorf("got %q, want %q", got, real)
		}
	})

	t.Run("relative segments cleaned", func(t *testing.T) {
		sub := filepath.Join(real, "sub")
		if err := os.Mkdir(sub, 0755); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
		got, err := match.CanonicalDir(filepath.Join(real, "sub", "..", "sub"))
		if err != nil {
			t.Fatalf("CanonicalDir() error = %v", err)
		}
		if got != sub {
			t.Errorf("got %q, want %q", got, sub)
		}
	})

	t.Run("symlink resolves to target", func(t *testing.T) {
		target := filepath.Join(real, "target")
		if err := os.Mkdir(target, 0755); err != nil {
			t.Fatalf("Mkdir: %v", err)
		}
		link := filepath.Join(real, "link")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		got, err := match.CanonicalDir(link)
		if err != nil {
			t.Fatalf("CanonicalDir() error = %v", err)
		}
		if got != target {
			t.Errorf("got %q, want %q", got, target)
		}
	})

	t.Run("missing path still canonicalizes", func(t *testing.T) {
		missing := filepath.Join(real, "does", "not", "exist")
		got, err := match.CanonicalDir(missing + string(filepath.Separator))
		if err != nil {
			t.Fatalf("CanonicalDir() error = %v", err)
		}
		if got != missing {
			t.Errorf("got %q, want %q", got, missing)
		}
	})
}

func TestResolveDir(t *testing.T) {
	base := t.TempDir()
	real, err := match.CanonicalDir(base)
	if err != nil {
		t.Fatalf("CanonicalDir: %v", err)
	}

	t.Run("existing directory", func(t *testing.T) {
		got, err := match.ResolveDir(real)
		if err != nil {
			t.Fatalf("ResolveDir() error = %v", err)
		}
		if got != real {
			t.Errorf("got %q, want %q", got, real)
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := match.ResolveDir(filepath.Join(real, "absent")); err == nil {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("regular file", func(t *testing.T) {
		file := filepath.Join(real, "file.txt")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := match.ResolveDir(file); err == nil {
			t.Error("expected error for regular file")
		}
	})
}
