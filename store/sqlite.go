package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS goseq_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLite is a Backend over a row in an embedded sqlite database.
type SQLite[D any] struct {
	db    *sql.DB
	key   string
	codec Codec[D]
	owned bool
}

// OpenSQLite opens (creating if needed) the database at path and returns a
// backend persisting under key. Close releases the connection.
func OpenSQLite[D any](path, key string) (*SQLite[D], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite %q: %w", path, err)
	}
	s, err := NewSQLite[D](db, key)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewSQLite builds a backend over an existing database handle. The handle
// stays owned by the caller.
func NewSQLite[D any](db *sql.DB, key string) (*SQLite[D], error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("store: create cache table: %w", err)
	}
	return &SQLite[D]{db: db, key: key, codec: JSONCodec[D]{}}, nil
}

// WithCodec replaces the default JSON codec.
func (s *SQLite[D]) WithCodec(codec Codec[D]) *SQLite[D] {
	s.codec = codec
	return s
}

// Read implements Backend.
func (s *SQLite[D]) Read(ctx context.Context) (D, error) {
	var zero D
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM goseq_cache WHERE key = ?`, s.key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("store: read %q: %w", s.key, err)
	}
	return s.codec.Decode(data)
}

// Write implements Backend.
func (s *SQLite[D]) Write(ctx context.Context, value D) error {
	data, err := s.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", s.key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO goseq_cache (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("store: write %q: %w", s.key, err)
	}
	return nil
}

// Close releases the database handle when this backend opened it.
func (s *SQLite[D]) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
