package match

import (
	"path/filepath"
	"strings"
	"time"
)

// RawFileRecord is one indexed RAW file. Records are created during an index
// build or update and removed only when the underlying file disappears from a
// later scan (or the cache is cleared).
type RawFileRecord struct {
	Path             string     // absolute, canonicalized
	Basename         string     // filename stem, case-folded
	CaptureTimestamp *time.Time // nil when extraction failed or the field is missing
	Size             int64      // byte length at index time
	ModifiedAt       time.Time  // filesystem mtime at index time
}

// NewRawFileRecord builds a record for path. The basename is always derived
// from the path, never supplied by the caller.
func NewRawFileRecord(path string, captureTimestamp *time.Time, size int64, modifiedAt time.Time) *RawFileRecord {
	return &RawFileRecord{
		Path:             path,
		Basename:         Basename(path),
		CaptureTimestamp: captureTimestamp,
		Size:             size,
		ModifiedAt:       modifiedAt,
	}
}

// JPEGRecord is the JPEG-side counterpart of RawFileRecord, derived the same
// way. It exists only for the duration of one match invocation.
type JPEGRecord struct {
	Path             string
	Basename         string
	CaptureTimestamp *time.Time
}

// NewJPEGRecord builds a JPEG record for path.
func NewJPEGRecord(path string, captureTimestamp *time.Time) JPEGRecord {
	return JPEGRecord{
		Path:             path,
		Basename:         Basename(path),
		CaptureTimestamp: captureTimestamp,
	}
}

// Basename returns the filename stem, case-folded for comparison:
// "IMG_0001.CR3" and "img_0001.cr3" yield the same basename.
func Basename(path string) string {
	name := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// FileStat is the enumeration result for one file on disk: just enough to
// diff against an existing index without reading the file.
type FileStat struct {
	Path       string
	Size       int64
	ModifiedAt time.Time
}
