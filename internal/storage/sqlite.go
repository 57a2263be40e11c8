package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database holding the load run history.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (or creates) the SQLite file at dbPath and applies migrations.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: dbPath}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// DefaultPath is the run history location under the user's data directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "bizloader.db")
	}
	return filepath.Join(homeDir, ".local", "share", "bizloader", "runs.db")
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS load_runs (
			id TEXT PRIMARY KEY,
			input_path TEXT NOT NULL,
			source_type TEXT NOT NULL DEFAULT '',
			sink TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			status TEXT NOT NULL,
			backfilled INTEGER NOT NULL DEFAULT 0,
			rows_read INTEGER NOT NULL DEFAULT 0,
			rows_accepted INTEGER NOT NULL DEFAULT 0,
			rows_written INTEGER NOT NULL DEFAULT 0,
			rows_skipped INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			dry_run INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_load_runs_started ON load_runs(started_at)`,
		`CREATE TABLE IF NOT EXISTS load_run_rejects (
			run_id TEXT NOT NULL REFERENCES load_runs(id),
			row_index INTEGER NOT NULL,
			business_name TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_load_run_rejects_run ON load_run_rejects(run_id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}
