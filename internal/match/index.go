package match

import (
	"sort"
	"time"
)

// RawIndex is the index for exactly one source directory. The byPath map is
// authoritative; byBasename and byTimestamp are derived views. All mutation
// goes through Add/Remove so the three never diverge.
type RawIndex struct {
	sourceDirectory string
	byPath          map[string]*RawFileRecord
	byBasename      map[string][]*RawFileRecord
	byTimestamp     map[time.Time][]*RawFileRecord
	lastUpdated     time.Time
}

// NewRawIndex creates an empty index for the given canonical source directory.
func NewRawIndex(sourceDirectory string) *RawIndex {
	return &RawIndex{
		sourceDirectory: sourceDirectory,
		byPath:          make(map[string]*RawFileRecord),
		byBasename:      make(map[string][]*RawFileRecord),
		byTimestamp:     make(map[time.Time][]*RawFileRecord),
	}
}

// SourceDirectory returns the canonical directory this index covers.
func (ix *RawIndex) SourceDirectory() string { return ix.sourceDirectory }

// LastUpdated returns the instant of the last successful build or update.
func (ix *RawIndex) LastUpdated() time.Time { return ix.lastUpdated }

// SetLastUpdated records the completion instant of a build or update.
func (ix *RawIndex) SetLastUpdated(t time.Time) { ix.lastUpdated = t }

// FileCount returns the number of records in the index.
func (ix *RawIndex) FileCount() int { return len(ix.byPath) }

// Add inserts a record. A record with the same path replaces the existing
// one, keeping the per-path uniqueness invariant.
func (ix *RawIndex) Add(rec *RawFileRecord) {
	if _, ok := ix.byPath[rec.Path]; ok {
		ix.Remove(rec.Path)
	}

	ix.byPath[rec.Path] = rec
	ix.byBasename[rec.Basename] = append(ix.byBasename[rec.Basename], rec)
	if rec.CaptureTimestamp != nil {
		ts := *rec.CaptureTimestamp
		ix.byTimestamp[ts] = append(ix.byTimestamp[ts], rec)
	}
}

// Remove deletes the record for path from all views. Returns false when the
// path was not indexed.
func (ix *RawIndex) Remove(path string) bool {
	rec, ok := ix.byPath[path]
	if !ok {
		return false
	}
	delete(ix.byPath, path)

	ix.byBasename[rec.Basename] = dropByPath(ix.byBasename[rec.Basename], path)
	if len(ix.byBasename[rec.Basename]) == 0 {
		delete(ix.byBasename, rec.Basename)
	}

	if rec.CaptureTimestamp != nil {
		ts := *rec.CaptureTimestamp
		ix.byTimestamp[ts] = dropByPath(ix.byTimestamp[ts], path)
		if len(ix.byTimestamp[ts]) == 0 {
			delete(ix.byTimestamp, ts)
		}
	}
	return true
}

// Record returns the record for path, or nil when the path is not indexed.
func (ix *RawIndex) Record(path string) *RawFileRecord {
	return ix.byPath[path]
}

// FindByBasename returns all records sharing the case-folded basename.
func (ix *RawIndex) FindByBasename(basename string) []*RawFileRecord {
	return ix.byBasename[basename]
}

// FindByTimestamp returns all records with exactly the given capture instant.
// Records without a timestamp are never returned here.
func (ix *RawIndex) FindByTimestamp(ts time.Time) []*RawFileRecord {
	return ix.byTimestamp[ts]
}

// Records returns all records ordered by path, so callers iterating the index
// are deterministic regardless of insertion order.
func (ix *RawIndex) Records() []*RawFileRecord {
	recs := make([]*RawFileRecord, 0, len(ix.byPath))
	for _, rec := range ix.byPath {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Path < recs[j].Path })
	return recs
}

func dropByPath(recs []*RawFileRecord, path string) []*RawFileRecord {
	kept := recs[:0]
	for _, r := range recs {
		if r.Path != path {
			kept = append(kept, r)
		}
	}
	return kept
}
