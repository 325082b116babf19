package match

import (
	"context"
	"time"
)

// MetadataSource extracts a capture timestamp from one file. Implementations
// spawn an external process per call, so callers keep invocations to at most
// one per file per run. A nil timestamp with a nil error means the file
// simply carries no capture-time field.
type MetadataSource interface {
	ExtractCaptureTimestamp(ctx context.Context, path string) (*time.Time, error)
}

// FileEnumerator lists the files under a directory whose extension is in the
// given set. Extension matching is case-insensitive. Enumeration is pure and
// stateless; a directory that cannot be read at all is an error.
type FileEnumerator interface {
	Enumerate(dir string, recursive bool, extensions []string) ([]FileStat, error)
}

// IndexInfo is the listing entry for one persisted index.
type IndexInfo struct {
	SourceDirectory string
	LastUpdated     time.Time
	FileCount       int
}

// IndexStore is the durable mapping from canonical source directory to its
// RawIndex. Save must be atomic with respect to concurrent readers: a reader
// never observes a partially-written index.
type IndexStore interface {
	// Load returns the persisted index for sourceDirectory, or nil when none
	// exists (including when the persisted form is unreadable).
	Load(sourceDirectory string) (*RawIndex, error)

	// Save persists the index, replacing any previous one for its directory.
	Save(ix *RawIndex) error

	// ListAll returns one entry per persisted index, most recently updated
	// first.
	ListAll() ([]IndexInfo, error)

	// Remove deletes the index for sourceDirectory. Returns false when there
	// was none.
	Remove(sourceDirectory string) (bool, error)

	// RemoveAll deletes every persisted index.
	RemoveAll() error

	Close() error
}
