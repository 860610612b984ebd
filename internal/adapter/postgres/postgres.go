// Package postgres stores the Store Root in a PostgreSQL key/value table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"glicosmart/internal/domain"

	_ "github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain.Slot for a single key.
type DB struct {
	sql *sql.DB
	key string
}

var _ domain.Slot = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations. key names the
// row holding the Store Root.
func Open(connStr, key string) (*DB, error) {
	if key == "" {
		key = domain.SlotKey
	}
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(4)
	s.SetMaxIdleConns(2)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s, key: key}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
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
	var value string
	err := d.sql.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = $1`, d.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.key, err)
	}
	return []byte(value), nil
}

// Write upserts the value.
func (d *DB) Write(ctx context.Context, data []byte) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		d.key, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write %s: %w", d.key, err)
	}
	return nil
}

// Clear deletes the row.
func (d *DB) Clear(ctx context.Context) error {
	if _, err := d.sql.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, d.key); err != nil {
		return fmt.Errorf("clear %s: %w", d.key, err)
	}
	return nil
}
