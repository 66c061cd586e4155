// Package sqlite implements the backing store on an embedded SQLite
// database. It holds the five logical tables (users, task groups, task
// catalog, payscale, history) and is the single writer for ledger state.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	db *sql.DB
}

// Open creates or opens the database file inside dir and applies migrations.
func Open(dir string) (*DB, error) {
	path := filepath.Join(dir, "shiftdesk.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	// under the ledger's transactional writes.
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	for _, stmt := range Migrations() {
		if _, err := sqlDB.Exec(stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &DB{db: sqlDB}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// ─── Schema ─────────────────────────────────────────────────────────────────

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
// Money columns are TEXT holding exact decimal strings, never floats.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			pin        TEXT NOT NULL DEFAULT '',
			rank       INTEGER NOT NULL DEFAULT 0,
			commission TEXT NOT NULL DEFAULT '0',
			spent      TEXT NOT NULL DEFAULT '0',
			flags      TEXT NOT NULL DEFAULT '0000000000'
		)`,

		`CREATE TABLE IF NOT EXISTS task_groups (
			ord                INTEGER PRIMARY KEY,
			label              TEXT NOT NULL DEFAULT '',
			available_tasks    INTEGER NOT NULL DEFAULT 0,
			ticket_cost        TEXT NOT NULL DEFAULT '0',
			daily_allocation   TEXT NOT NULL DEFAULT '0',
			monthly_allocation TEXT NOT NULL DEFAULT '0',
			period1            TEXT NOT NULL DEFAULT '',
			period2            TEXT NOT NULL DEFAULT '',
			period3            TEXT NOT NULL DEFAULT '',
			period4            TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id    TEXT PRIMARY KEY,
			ord   INTEGER NOT NULL,
			board TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_ord ON tasks(ord)`,

		`CREATE TABLE IF NOT EXISTS task_categories (
			task_id  TEXT NOT NULL,
			key      TEXT NOT NULL,
			name     TEXT NOT NULL DEFAULT '',
			type     TEXT NOT NULL DEFAULT '',
			price    TEXT NOT NULL DEFAULT '0',
			quantity INTEGER NOT NULL DEFAULT 0,
			extra    TEXT NOT NULL DEFAULT '',
			cost     TEXT NOT NULL DEFAULT '0',
			PRIMARY KEY (task_id, key)
		)`,

		`CREATE TABLE IF NOT EXISTS payscale (
			rank INTEGER PRIMARY KEY,
			rate TEXT NOT NULL DEFAULT '0'
		)`,

		`CREATE TABLE IF NOT EXISTS history (
			id               TEXT PRIMARY KEY,
			request_id       TEXT NOT NULL DEFAULT '',
			ts               TEXT NOT NULL,
			user_id          TEXT NOT NULL,
			board            TEXT NOT NULL DEFAULT '',
			category         TEXT NOT NULL DEFAULT '',
			type             TEXT NOT NULL DEFAULT '',
			quantity         INTEGER NOT NULL DEFAULT 0,
			period           TEXT NOT NULL DEFAULT '',
			cost             TEXT NOT NULL DEFAULT '0',
			commission_total TEXT NOT NULL DEFAULT '0'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id, ts)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_history_request
			ON history(request_id) WHERE request_id != ''`,
	}
}
