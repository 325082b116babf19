package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rawmatch/internal/config"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := config.NewConfig("/home/user/.local/share/rawmatch")

	if cfg.Store.Type != "sqlite" {
		t.Errorf("Store.Type = %q, want sqlite", cfg.Store.Type)
	}
	if cfg.Store.DataDir != filepath.Join(cfg.BaseDir, "cache") {
		t.Errorf("Store.DataDir = %q", cfg.Store.DataDir)
	}
	if cfg.LogDir != filepath.Join(cfg.BaseDir, "log") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.Exif.TimeoutSeconds != 30 || cfg.Exif.Workers != 4 {
		t.Errorf("Exif = %+v, want 30s timeout and 4 workers", cfg.Exif)
	}
	if len(cfg.Scan.RawExtensions) == 0 || len(cfg.Scan.JPEGExtensions) == 0 {
		t.Error("default extension sets must not be empty")
	}
	for _, ext := range []string{"cr3", "nef", "arw", "dng"} {
		found := false
		for _, have := range cfg.Scan.RawExtensions {
			if have == ext {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("default raw extensions missing %q", ext)
		}
	}
}

func TestManagerRoundTrip(t *testing.T) {
	cfg := config.NewConfig("/data/rawmatch")
	cfg.Exif.ToolPath = "/opt/exiftool/exiftool"
	cfg.Scan.Ignore = []string{"*.tmp", "trash/*"}

	var buf bytes.Buffer
	m := &config.Manager{}
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != cfg.BaseDir || got.LogDir != cfg.LogDir {
		t.Errorf("directories = %q/%q, want %q/%q", got.BaseDir, got.LogDir, cfg.BaseDir, cfg.LogDir)
	}
	if got.Store != cfg.Store {
		t.Errorf("Store = %+v, want %+v", got.Store, cfg.Store)
	}
	if got.Exif != cfg.Exif {
		t.Errorf("Exif = %+v, want %+v", got.Exif, cfg.Exif)
	}
	if len(got.Scan.Ignore) != 2 || got.Scan.Ignore[0] != "*.tmp" {
		t.Errorf("Scan.Ignore = %v", got.Scan.Ignore)
	}
}

func TestReadPartialConfig(t *testing.T) {
	// Users typically only override a field or two.
	input := `
base_dir = "/data/rawmatch"

[exif]
workers = 8
`
	m := &config.Manager{}
	cfg, err := m.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.BaseDir != "/data/rawmatch" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.Exif.Workers != 8 {
		t.Errorf("Exif.Workers = %d, want 8", cfg.Exif.Workers)
	}
	// Unset sections decode to zero values, not defaults.
	if cfg.Store.Type != "" {
		t.Errorf("Store.Type = %q, want empty", cfg.Store.Type)
	}
}

func TestReadInvalidToml(t *testing.T) {
	m := &config.Manager{}
	if _, err := m.Read(strings.NewReader("base_dir = [unclosed")); err == nil {
		t.Error("expected error for invalid toml")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates file and parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "rawmatch.toml")
		cfg := config.NewConfig("/data/rawmatch")

		if err := config.Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		got, err := config.ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != cfg.BaseDir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, cfg.BaseDir)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rawmatch.toml")
		if err := os.WriteFile(path, []byte("base_dir = \"/existing\"\n"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if err := config.Init(path, config.NewConfig("/data")); err == nil {
			t.Error("expected error for existing config file")
		}
	})
}

func TestReadFromFileMissing(t *testing.T) {
	if _, err := config.ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
