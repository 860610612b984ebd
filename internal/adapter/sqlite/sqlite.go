// Package sqlite stores the Store Root in an embedded SQLite key/value table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"glicosmart/internal/domain"

	_ "modernc.org/sqlite"
)

// DB is a SQLite-backed slot for a single key.
type DB struct {
	sql *sql.DB
	key string
}

var _ domain.Slot = (*DB)(nil)

// Open opens (or creates) the database at dsn and migrates it. Use
// ":memory:" for a throwaway database.
func Open(dsn, key string) (*DB, error) {
	if key == "" {
		key = domain.SlotKey
	}
	s, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite serialises writers anyway, and every
	// connection to ":memory:" would otherwise see its own database.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d := &DB{sql: s, key: key}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Read returns the stored value, or nil when the row does not exist.
func (d *DB) Read(ctx context.Context) ([]byte, error) {
	var value []byte
	err := d.sql.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, d.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.key, err)
	}
	return value, nil
}

// Write upserts the value.
func (d *DB) Write(ctx context.Context, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		d.key, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write %s: %w", d.key, err)
	}
	return nil
}

// Clear deletes the row.
func (d *DB) Clear(ctx context.Context) error {
	if _, err := d.sql.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, d.key); err != nil {
		return fmt.Errorf("clear %s: %w", d.key, err)
	}
	return nil
}

// UpdatedAt returns when the value was last written, or the zero time.
func (d *DB) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts string
	err := d.sql.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, d.key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, ts)
}
