package store

import (
	"fmt"
	"os"
	"path/filepath"

	"rawmatch/internal/config"
	"rawmatch/internal/match"
)

// CacheFileName is the single cache database under the data directory.
// Deleting the whole directory is always safe; it only forces re-indexing.
const CacheFileName = "index.db"

// NewStoreFromConfig creates an IndexStore implementation based on the store
// config type. A cache database that cannot be opened or migrated is treated
// as corrupt: it is discarded and recreated empty rather than failing the run.
func NewStoreFromConfig(cfg config.StoreConfig, logger match.Logger) (match.IndexStore, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
		dbPath := filepath.Join(cfg.DataDir, CacheFileName)

		s, err := NewSQLiteStore(dbPath)
		if err == nil {
			return s, nil
		}
		logger.Warn("cache database unusable, recreating", "path", dbPath, "error", err)
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing corrupt cache: %w", err)
		}
		return NewSQLiteStore(dbPath)
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
