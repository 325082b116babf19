package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for rawmatch.
type Config struct {
	BaseDir string      `toml:"base_dir"`
	LogDir  string      `toml:"log_dir"`
	Store   StoreConfig `toml:"store"`
	Exif    ExifConfig  `toml:"exif"`
	Scan    ScanConfig  `toml:"scan"`
}

// StoreConfig represents configuration for the index cache store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// ExifConfig holds settings for the external metadata-extraction tool.
type ExifConfig struct {
	ToolPath       string `toml:"tool_path,omitempty"` // empty means look up "exiftool" on PATH
	TimeoutSeconds int    `toml:"timeout_seconds"`     // per-file extraction timeout
	Workers        int    `toml:"workers"`             // bounded extraction pool size
}

// ScanConfig holds the file-kind extension sets and ignore patterns used
// during enumeration.
type ScanConfig struct {
	RawExtensions  []string `toml:"raw_extensions"`
	JPEGExtensions []string `toml:"jpeg_extensions"`
	Ignore         []string `toml:"ignore"`
}

// DefaultRawExtensions covers the common camera vendors.
var DefaultRawExtensions = []string{
	"cr2", "cr3", // Canon
	"nef", // Nikon
	"arw", // Sony
	"raf", // Fujifilm
	"orf", // Olympus
	"rw2", // Panasonic
	"pef", // Pentax
	"dng", // Adobe/Leica
	"rwl", // Leica
	"3fr", // Hasselblad
	"iiq", // Phase One
}

// DefaultJPEGExtensions are the JPEG spellings, matched case-insensitively.
var DefaultJPEGExtensions = []string{"jpg", "jpeg"}

// NewConfig creates a new Config with the provided base directory and
// defaults for everything else.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "cache"),
		},
		Exif: ExifConfig{
			TimeoutSeconds: 30,
			Workers:        4,
		},
		Scan: ScanConfig{
			RawExtensions:  DefaultRawExtensions,
			JPEGExtensions: DefaultJPEGExtensions,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
