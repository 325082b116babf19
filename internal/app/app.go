package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"rawmatch/internal/config"
	"rawmatch/internal/exif"
	"rawmatch/internal/match"
	"rawmatch/internal/scan"
	"rawmatch/internal/store"

	"github.com/google/uuid"
)

// App is the application layer between the CLI and the match.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages the store lifecycle on Close.
type App struct {
	cfg     *config.Config
	store   match.IndexStore
	service *match.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. verbose lowers the
// log level to Debug. Tool availability is verified here, before any file
// processing. The caller must call Close when done.
func NewApp(cfg *config.Config, verbose bool) (*App, error) {
	runID := uuid.New().String()[:8]
	logger, logFile, err := newLogger(cfg.LogDir, runID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	st, err := store.NewStoreFromConfig(cfg.Store, log)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating index store: %w", err)
	}

	timeout := time.Duration(cfg.Exif.TimeoutSeconds) * time.Second
	reader, err := exif.NewReader(cfg.Exif.ToolPath, timeout, log)
	if err != nil {
		st.Close()
		logFile.Close()
		return nil, err
	}

	enumerator := scan.NewOSFileEnumerator(cfg.Scan.Ignore)

	rawExts := cfg.Scan.RawExtensions
	if len(rawExts) == 0 {
		rawExts = config.DefaultRawExtensions
	}
	jpegExts := cfg.Scan.JPEGExtensions
	if len(jpegExts) == 0 {
		jpegExts = config.DefaultJPEGExtensions
	}

	svc := match.NewService(st, reader, enumerator, log, match.RealClock{}, cfg.Exif.Workers, rawExts, jpegExts)

	return &App{
		cfg:     cfg,
		store:   st,
		service: svc,
		logFile: logFile,
	}, nil
}

// Index builds or incrementally updates the index for the given directory.
func (a *App) Index(ctx context.Context, rawPath string, recursive, forceRebuild bool) (*match.IndexReport, error) {
	return a.service.Index(ctx, rawPath, recursive, forceRebuild)
}

// Match finds and copies the RAW companions for the JPEGs under rawPath.
func (a *App) Match(ctx context.Context, rawPath string, recursive bool, sourceFilter string) (*match.Summary, error) {
	return a.service.Match(ctx, rawPath, recursive, sourceFilter)
}

// ListIndexes returns the persisted indexes, most recently updated first.
func (a *App) ListIndexes() ([]match.IndexInfo, error) {
	return a.service.ListIndexes()
}

// ClearCache removes the index for source, or every index when source is
// empty. Returns false when a specific source had no index.
func (a *App) ClearCache(source string) (bool, error) {
	return a.service.ClearCache(source)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing index store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
