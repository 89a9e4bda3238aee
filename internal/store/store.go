package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store keeps stats and the session log in SQLite.
type Store struct {
	path string
	db   *sql.DB
	drv  *entsql.Driver
}

// Open connects to the SQLite database at dsn, applies pragmas and creates
// missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, persistErr("open database", dsn, err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, persistErr("apply pragmas", dsn, err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, persistErr("migrate", dsn, err)
	}

	return &Store{path: dsn, db: db, drv: entsql.OpenDB(dialect.SQLite, db)}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the DSN the store was opened with.
func (s *Store) Path() string { return s.path }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// schema is applied on every open. Statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS histories (
		question_id INTEGER PRIMARY KEY CHECK (question_id >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		question_id INTEGER NOT NULL REFERENCES histories(question_id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		date        INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		rate_num    INTEGER NOT NULL,
		rate_den    INTEGER NOT NULL CHECK (rate_den > 0),
		PRIMARY KEY (question_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id          TEXT PRIMARY KEY,
		started_at  INTEGER NOT NULL,
		ended_at    INTEGER,
		answered    INTEGER NOT NULL DEFAULT 0,
		graduated   INTEGER NOT NULL DEFAULT 0,
		score_num   INTEGER NOT NULL DEFAULT 0,
		score_den   INTEGER NOT NULL DEFAULT 1,
		interrupted INTEGER NOT NULL DEFAULT 0
	)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// withTx runs fn in a transaction, rolling back if fn fails.
func (s *Store) withTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZBUCKET_DB environment variable
// 2. $XDG_DATA_HOME/quizbucket/quizbucket.db
// 3. ~/.local/share/quizbucket/quizbucket.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZBUCKET_DB"); p != "" && p != "auto" {
		return p, EnsureDir(p)
	}
	return DataPath("quizbucket.db")
}

// DataPath returns name inside the per-user data directory, creating the
// directory if needed.
func DataPath(name string) (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizbucket", name)
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
