package match

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Indexer produces an up-to-date RawIndex for a directory with minimal
// redundant metadata extraction. Re-running against an unchanged directory
// costs one stat per file and zero extractions.
type Indexer struct {
	enumerator FileEnumerator
	metadata   MetadataSource
	store      IndexStore
	logger     Logger
	clock      Clock
	workers    int
	extensions []string
}

// NewIndexer creates an Indexer. workers bounds the number of concurrent
// metadata extractions; values below 1 are treated as 1.
func NewIndexer(enumerator FileEnumerator, metadata MetadataSource, store IndexStore, logger Logger, clock Clock, workers int, extensions []string) *Indexer {
	if workers < 1 {
		workers = 1
	}
	return &Indexer{
		enumerator: enumerator,
		metadata:   metadata,
		store:      store,
		logger:     logger,
		clock:      clock,
		workers:    workers,
		extensions: extensions,
	}
}

// BuildOrUpdate builds the index for sourceDirectory (already canonical),
// diffing against any persisted index instead of re-extracting every file.
// The returned report carries per-file extraction failures; those files are
// still indexed, with an absent timestamp. The persisted index is written
// only after the entire diff has been applied in memory, so an interrupted
// run never leaves a mix of old and new state behind.
func (ix *Indexer) BuildOrUpdate(ctx context.Context, sourceDirectory string, recursive, forceRebuild bool) (*RawIndex, *IndexReport, error) {
	index := NewRawIndex(sourceDirectory)
	if !forceRebuild {
		loaded, err := ix.store.Load(sourceDirectory)
		if err != nil {
			ix.logger.Warn("persisted index unreadable, rebuilding", "dir", sourceDirectory, "error", err)
		} else if loaded != nil {
			index = loaded
			ix.logger.Info("loaded persisted index", "dir", sourceDirectory, "files", index.FileCount())
		}
	}

	onDisk, err := ix.enumerator.Enumerate(sourceDirectory, recursive, ix.extensions)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating %s: %w", sourceDirectory, err)
	}

	report := &IndexReport{SourceDirectory: sourceDirectory}

	// Three-way diff keyed by path.
	current := make(map[string]FileStat, len(onDisk))
	for _, st := range onDisk {
		current[st.Path] = st
	}

	for _, rec := range index.Records() {
		if _, ok := current[rec.Path]; !ok {
			index.Remove(rec.Path)
			report.Removed++
		}
	}

	var toExtract []FileStat
	for _, st := range onDisk {
		rec := index.Record(st.Path)
		switch {
		case rec == nil:
			report.Added++
			toExtract = append(toExtract, st)
		case rec.Size != st.Size || !rec.ModifiedAt.Equal(st.ModifiedAt):
			index.Remove(st.Path)
			report.Changed++
			toExtract = append(toExtract, st)
		default:
			report.Unchanged++
		}
	}

	ix.logger.Info("index diff computed", "dir", sourceDirectory,
		"added", report.Added, "removed", report.Removed,
		"changed", report.Changed, "unchanged", report.Unchanged)

	records, errs := extractRecords(ctx, ix.metadata, ix.workers, toExtract)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	for _, rec := range records {
		index.Add(rec)
	}
	for _, fe := range errs {
		ix.logger.Warn("metadata extraction failed", "path", fe.Path, "reason", fe.Reason)
	}
	report.Errors = errs
	report.FileCount = index.FileCount()

	index.SetLastUpdated(ix.clock.Now())
	if err := ix.store.Save(index); err != nil {
		return nil, nil, fmt.Errorf("persisting index: %w", err)
	}

	return index, report, nil
}

// extractRecords runs metadata extraction for the given files on a bounded
// worker pool and joins before returning, so callers mutate index state only
// after every worker has finished. Each worker writes a dedicated slot; the
// result set does not depend on completion order. An extraction failure
// yields a record with an absent timestamp plus a FileError.
func extractRecords(ctx context.Context, metadata MetadataSource, workers int, files []FileStat) ([]*RawFileRecord, []FileError) {
	records := make([]*RawFileRecord, len(files))
	failures := make([]*FileError, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, st := range files {
		i, st := i, st
		g.Go(func() error {
			ts, err := metadata.ExtractCaptureTimestamp(gctx, st.Path)
			if err != nil {
				failures[i] = &FileError{Path: st.Path, Reason: err.Error()}
				ts = nil
			}
			records[i] = NewRawFileRecord(st.Path, ts, st.Size, st.ModifiedAt)
			return nil
		})
	}
	g.Wait()

	var errs []FileError
	for _, fe := range failures {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	return records, errs
}

// extractTimestamps is the JPEG-side variant of extractRecords: same pool,
// same join discipline, but only the timestamps are wanted.
func extractTimestamps(ctx context.Context, metadata MetadataSource, workers int, files []FileStat) ([]*time.Time, []FileError) {
	timestamps := make([]*time.Time, len(files))
	failures := make([]*FileError, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, st := range files {
		i, st := i, st
		g.Go(func() error {
			ts, err := metadata.ExtractCaptureTimestamp(gctx, st.Path)
			if err != nil {
				failures[i] = &FileError{Path: st.Path, Reason: err.Error()}
				ts = nil
			}
			timestamps[i] = ts
			return nil
		})
	}
	g.Wait()

	var errs []FileError
	for _, fe := range failures {
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	return timestamps, errs
}
