package match

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoIndexes is returned by Match when no persisted index is usable
// (nothing indexed yet, or a source filter naming an unindexed directory).
// The CLI treats it as guidance, not failure.
var ErrNoIndexes = errors.New("no usable raw file indexes")

// Service coordinates the indexer, matcher and copier to implement the
// tool-level operations the CLI exposes.
type Service struct {
	store      IndexStore
	metadata   MetadataSource
	enumerator FileEnumerator
	indexer    *Indexer
	matcher    *Matcher
	copier     *Copier
	logger     Logger
	clock      Clock
	jpegExts   []string
	workers    int
}

// NewService creates a fully wired Service.
// workers bounds concurrent metadata extractions; rawExts and jpegExts are the
// extension sets handed to the enumerator for each file kind.
func NewService(store IndexStore, metadata MetadataSource, enumerator FileEnumerator, logger Logger, clock Clock, workers int, rawExts, jpegExts []string) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		store:      store,
		metadata:   metadata,
		enumerator: enumerator,
		indexer:    NewIndexer(enumerator, metadata, store, logger, clock, workers, rawExts),
		matcher:    NewMatcher(logger),
		copier:     NewCopier(logger),
		logger:     logger,
		clock:      clock,
		jpegExts:   jpegExts,
		workers:    workers,
	}
}

// Index builds or incrementally updates the persisted index for rawPath.
func (s *Service) Index(ctx context.Context, rawPath string, recursive, forceRebuild bool) (*IndexReport, error) {
	dir, err := ResolveDir(rawPath)
	if err != nil {
		return nil, fmt.Errorf("invalid source directory: %w", err)
	}

	_, report, err := s.indexer.BuildOrUpdate(ctx, dir, recursive, forceRebuild)
	if err != nil {
		return nil, err
	}

	s.logger.Info("index up to date", "dir", dir, "files", report.FileCount)
	return report, nil
}

// Match enumerates JPEGs under rawPath, resolves them against the persisted
// indexes (optionally restricted to sourceFilter), copies the confirmed RAW
// companions next to the JPEGs, and returns the tally. Per-file extraction
// and copy failures are accumulated in the summary; only directory-level
// problems return an error.
func (s *Service) Match(ctx context.Context, rawPath string, recursive bool, sourceFilter string) (*Summary, error) {
	targetDir, err := ResolveDir(rawPath)
	if err != nil {
		return nil, fmt.Errorf("invalid target directory: %w", err)
	}

	indexes, total, err := s.loadIndexes(sourceFilter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RawFilesIndexed: total}

	jpegs, err := s.enumerator.Enumerate(targetDir, recursive, s.jpegExts)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", targetDir, err)
	}
	summary.JPEGsScanned = len(jpegs)
	if len(jpegs) == 0 {
		s.logger.Info("no jpeg files found", "dir", targetDir)
		return summary, nil
	}

	timestamps, errs := extractTimestamps(ctx, s.metadata, s.workers, jpegs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, fe := range errs {
		s.logger.Warn("metadata extraction failed", "path", fe.Path, "reason", fe.Reason)
		summary.AddError(fe.Path, fe.Reason)
	}

	records := make([]JPEGRecord, len(jpegs))
	for i, st := range jpegs {
		records[i] = NewJPEGRecord(st.Path, timestamps[i])
	}

	matches := s.matcher.FindMatches(records, indexes)
	summary.MatchesFound = len(matches)
	s.logger.Info("matching complete", "jpegs", len(jpegs), "matches", len(matches))
	if len(matches) == 0 {
		return summary, nil
	}

	outcomes, err := s.copier.Copy(matches, targetDir)
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		switch o.Status {
		case CopySucceeded:
			summary.Copied++
		case CopySkippedExisting:
			summary.Skipped++
		case CopyFailed:
			summary.Failed++
			summary.AddError(o.RawPath, o.Reason)
		}
	}

	return summary, nil
}

// loadIndexes loads every persisted index, optionally restricted to a single
// source directory, and returns them with the total record count across them.
func (s *Service) loadIndexes(sourceFilter string) ([]*RawIndex, int, error) {
	infos, err := s.store.ListAll()
	if err != nil {
		return nil, 0, fmt.Errorf("listing indexes: %w", err)
	}

	filter := ""
	if sourceFilter != "" {
		filter, err = CanonicalDir(sourceFilter)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid source filter: %w", err)
		}
	}

	var indexes []*RawIndex
	total := 0
	for _, info := range infos {
		if filter != "" && info.SourceDirectory != filter {
			continue
		}
		ix, err := s.store.Load(info.SourceDirectory)
		if err != nil || ix == nil {
			s.logger.Warn("skipping unreadable index", "dir", info.SourceDirectory, "error", err)
			continue
		}
		indexes = append(indexes, ix)
		total += ix.FileCount()
	}

	if len(indexes) == 0 {
		if filter != "" {
			return nil, 0, fmt.Errorf("%w: %s is not indexed", ErrNoIndexes, filter)
		}
		return nil, 0, ErrNoIndexes
	}
	return indexes, total, nil
}

// ListIndexes returns one entry per persisted index, most recently updated
// first.
func (s *Service) ListIndexes() ([]IndexInfo, error) {
	return s.store.ListAll()
}

// ClearCache removes the persisted index for source, or every index when
// source is empty. Returns false when a specific source had no index.
func (s *Service) ClearCache(source string) (bool, error) {
	if source == "" {
		if err := s.store.RemoveAll(); err != nil {
			return false, fmt.Errorf("clearing cache: %w", err)
		}
		s.logger.Info("cache cleared")
		return true, nil
	}

	dir, err := CanonicalDir(source)
	if err != nil {
		return false, fmt.Errorf("invalid source directory: %w", err)
	}
	removed, err := s.store.Remove(dir)
	if err != nil {
		return false, fmt.Errorf("removing index: %w", err)
	}
	if removed {
		s.logger.Info("index removed", "dir", dir)
	}
	return removed, nil
}
