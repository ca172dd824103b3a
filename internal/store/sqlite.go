package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Snapshots using a local SQLite database, one
// row per resource.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// snapshotRow maps the snapshots table.
type snapshotRow struct {
	Key       string    `db:"key"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
	Size      int       `db:"size"`
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases alive across
	// calls and matches the one-request-at-a-time model.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Load returns the stored snapshot for key.
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]byte, error) {
	var row snapshotRow
	err := s.db.GetContext(ctx, &row,
		"SELECT key, data, updated_at, size FROM snapshots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", key, err)
	}
	return row.Data, nil
}

// Save inserts or replaces the snapshot for key.
func (s *SQLiteStore) Save(ctx context.Context, key string, data []byte) error {
	const query = `
		INSERT OR REPLACE INTO snapshots (key, data, updated_at, size)
		VALUES (:key, :data, :updated_at, :size)`

	row := snapshotRow{
		Key:       key,
		Data:      data,
		UpdatedAt: s.now().UTC(),
		Size:      len(data),
	}
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("saving snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot for key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting snapshot %s: %w", key, err)
	}
	return nil
}

// Clear removes every snapshot.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	return nil
}

// ModTime returns when key was last saved.
func (s *SQLiteStore) ModTime(ctx context.Context, key string) (time.Time, error) {
	var updated time.Time
	err := s.db.GetContext(ctx, &updated,
		"SELECT updated_at FROM snapshots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading snapshot time %s: %w", key, err)
	}
	return updated, nil
}

// Keys lists the stored snapshot keys, most recently saved first.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		"SELECT key FROM snapshots ORDER BY updated_at DESC, key")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return keys, nil
}
