// Package usage_store journals how often each path was opened, so usage
// counts survive a re-crawl of the filesystem.
package usage_store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/noelzubin/launch_search/logging"
	"github.com/noelzubin/launch_search/search"

	_ "modernc.org/sqlite"
)

// SchemaVersion is bumped whenever Migrate gains a step.
const SchemaVersion = 1

var log = logging.ForComponent(logging.CompUsage)

// Store wraps the SQLite usage journal. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open creates or opens the journal at dbPath with WAL mode and a busy
// timeout.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("usage_store: mkdir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("usage_store: open: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force
	// and serialises writers within the process.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("usage_store: %s: %w", pragma, err)
		}
	}
	return &Store{db: db}, nil
}

// Close checkpoints the WAL and closes the database.
func (s *Store) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// Migrate creates the tables if they don't exist.
func (s *Store) Migrate() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("usage_store: begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("usage_store: create metadata: %w", err)
	}
	if _, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS usage (
			path       TEXT PRIMARY KEY,
			uses       INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("usage_store: create usage: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)",
		fmt.Sprint(SchemaVersion),
	); err != nil {
		return fmt.Errorf("usage_store: set schema version: %w", err)
	}
	return tx.Commit()
}

// Increment adds one use to path and returns the new count.
func (s *Store) Increment(path string) (uint32, error) {
	var uses uint32
	err := s.db.QueryRow(`
		INSERT INTO usage (path, uses, updated_at) VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET uses = uses + 1, updated_at = excluded.updated_at
		RETURNING uses
	`, path, time.Now().Unix()).Scan(&uses)
	if err != nil {
		return 0, fmt.Errorf("usage_store: increment: %w", err)
	}
	log.Debug("uses_incremented", "path", path, "uses", uses)
	return uses, nil
}

// Reset forgets every use of path.
func (s *Store) Reset(path string) error {
	if _, err := s.db.Exec("DELETE FROM usage WHERE path = ?", path); err != nil {
		return fmt.Errorf("usage_store: reset: %w", err)
	}
	log.Debug("uses_reset", "path", path)
	return nil
}

// All returns the journalled count of every path.
func (s *Store) All() (map[string]uint32, error) {
	rows, err := s.db.Query("SELECT path, uses FROM usage")
	if err != nil {
		return nil, fmt.Errorf("usage_store: query: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint32)
	for rows.Next() {
		var path string
		var uses uint32
		if err := rows.Scan(&path, &uses); err != nil {
			return nil, fmt.Errorf("usage_store: scan: %w", err)
		}
		counts[path] = uses
	}
	return counts, rows.Err()
}

// Apply makes the journal authoritative for records: every record takes
// its journalled count, or zero when the journal has no entry for it. It
// returns how many records ended up with a non-zero count. Journal entries
// for paths no longer in records are kept.
func (s *Store) Apply(records []search.Record) (int, error) {
	counts, err := s.All()
	if err != nil {
		return 0, err
	}
	applied := 0
	for i := range records {
		uses := counts[records[i].Path]
		records[i].Uses = uses
		if uses > 0 {
			applied++
		}
	}
	log.Debug("usage_applied", "journal", len(counts), "applied", applied)
	return applied, nil
}
