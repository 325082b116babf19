package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rawmatch/internal/match"
	"rawmatch/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements match.IndexStore on a single SQLite database keyed
// by canonical source directory. Each Save runs in one transaction, so a
// concurrent reader sees either the previous index or the new one, never a
// partially-written mix.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the cache database at path and brings its
// schema up to date. path can be ":memory:" for an in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the store relies on. Exported for tests that need a raw connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// Foreign keys are off by default in SQLite; the raw_files cascade
	// depends on them.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return db, nil
}

// Load returns the persisted index for sourceDirectory, or nil when none
// exists.
func (s *SQLiteStore) Load(sourceDirectory string) (*match.RawIndex, error) {
	ctx := context.Background()

	var indexID string
	var lastUpdated int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, last_updated FROM indexes WHERE source_directory = ?`,
		sourceDirectory).Scan(&indexID, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading index for %s: %w", sourceDirectory, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, capture_timestamp, size, modified_at
		 FROM raw_files WHERE index_id = ? ORDER BY path`, indexID)
	if err != nil {
		return nil, fmt.Errorf("loading records for %s: %w", sourceDirectory, err)
	}
	defer rows.Close()

	ix := match.NewRawIndex(sourceDirectory)
	for rows.Next() {
		var path string
		var capture sql.NullInt64
		var size, modified int64
		if err := rows.Scan(&path, &capture, &size, &modified); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		var ts *time.Time
		if capture.Valid {
			t := time.Unix(0, capture.Int64).UTC()
			ts = &t
		}
		ix.Add(match.NewRawFileRecord(path, ts, size, time.Unix(0, modified).UTC()))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	ix.SetLastUpdated(time.Unix(0, lastUpdated).UTC())
	return ix, nil
}

// Save persists the index in a single transaction, replacing any previous
// index for the same source directory.
func (s *SQLiteStore) Save(ix *match.RawIndex) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace wholesale: the cascade clears the old records.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM indexes WHERE source_directory = ?`, ix.SourceDirectory()); err != nil {
		return fmt.Errorf("removing previous index: %w", err)
	}

	indexID := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexes (id, source_directory, last_updated, file_count)
		 VALUES (?, ?, ?, ?)`,
		indexID, ix.SourceDirectory(), ix.LastUpdated().UnixNano(), ix.FileCount()); err != nil {
		return fmt.Errorf("inserting index: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO raw_files (id, index_id, path, basename, capture_timestamp, size, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range ix.Records() {
		var capture sql.NullInt64
		if rec.CaptureTimestamp != nil {
			capture = sql.NullInt64{Int64: rec.CaptureTimestamp.UnixNano(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), indexID, rec.Path, rec.Basename,
			capture, rec.Size, rec.ModifiedAt.UnixNano()); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

// ListAll returns one entry per persisted index, most recently updated first.
func (s *SQLiteStore) ListAll() ([]match.IndexInfo, error) {
	rows, err := s.db.Query(
		`SELECT source_directory, last_updated, file_count
		 FROM indexes ORDER BY last_updated DESC, source_directory`)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}
	defer rows.Close()

	var infos []match.IndexInfo
	for rows.Next() {
		var dir string
		var lastUpdated int64
		var count int
		if err := rows.Scan(&dir, &lastUpdated, &count); err != nil {
			return nil, fmt.Errorf("scanning index row: %w", err)
		}
		infos = append(infos, match.IndexInfo{
			SourceDirectory: dir,
			LastUpdated:     time.Unix(0, lastUpdated).UTC(),
			FileCount:       count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading index rows: %w", err)
	}
	return infos, nil
}

// Remove deletes the index for sourceDirectory. Returns false when there was
// none.
func (s *SQLiteStore) Remove(sourceDirectory string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM indexes WHERE source_directory = ?`, sourceDirectory)
	if err != nil {
		return false, fmt.Errorf("removing index: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking removal: %w", err)
	}
	return n > 0, nil
}

// RemoveAll deletes every persisted index.
func (s *SQLiteStore) RemoveAll() error {
	if _, err := s.db.Exec(`DELETE FROM indexes`); err != nil {
		return fmt.Errorf("clearing indexes: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStore implements match.IndexStore.
var _ match.IndexStore = (*SQLiteStore)(nil)
