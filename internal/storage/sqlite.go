// Package storage keeps the opt-in lookup history in a local SQLite
// database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const schemaVersion = 3

// Open creates the database directory, opens the database at path and
// brings its schema up to date.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history db path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Wipe removes the database files at path.
func Wipe(path string) error {
	if err := resetLocalDBFiles(path); err != nil {
		return fmt.Errorf("wipe local db files: %w", err)
	}
	return forgetDBKey()
}

// Exists reports whether any database file is present at path.
func Exists(path string) (bool, error) {
	return hasLocalDBFiles(path)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  version INTEGER NOT NULL
);

INSERT OR IGNORE INTO schema_migrations (id, version) VALUES (1, 1);
`
	if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
		return fmt.Errorf("run sqlite migrations: %w", err)
	}

	var currentVersion int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE id = 1").Scan(&currentVersion); err != nil {
		return fmt.Errorf("read sqlite schema version: %w", err)
	}
	if currentVersion > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, schemaVersion)
	}

	migrations := []struct {
		version int
		schema  string
	}{
		{version: 2, schema: lookupsSchema},
		{version: 3, schema: settingsSchema},
	}
	for _, m := range migrations {
		if currentVersion >= m.version {
			continue
		}
		if err := applyMigration(ctx, db, m.version, m.schema); err != nil {
			return err
		}
		currentVersion = m.version
	}
	return nil
}

const lookupsSchema = `
CREATE TABLE IF NOT EXISTS lookups (
  id TEXT PRIMARY KEY,
  identifier TEXT NOT NULL,
  period TEXT NOT NULL,
  outcome TEXT NOT NULL CHECK (outcome IN ('found', 'not_found', 'failed')),
  looked_up_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lookups_looked_up_at ON lookups(looked_up_at);
CREATE INDEX IF NOT EXISTS idx_lookups_identifier ON lookups(identifier);
`

const settingsSchema = `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`

func applyMigration(ctx context.Context, db *sql.DB, version int, schema string) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite migration v%d transaction: %w", version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run sqlite v%d migrations: %w", version, err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE schema_migrations SET version = ? WHERE id = 1", version); err != nil {
		return fmt.Errorf("update sqlite schema version to %d: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite v%d migrations: %w", version, err)
	}
	return nil
}

func hasLocalDBFiles(path string) (bool, error) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return false, nil
}

func resetLocalDBFiles(path string) error {
	paths := []string{
		path,
		path + "-wal",
		path + "-shm",
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
