package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var _ Store = (*DB)(nil)

// DB is a SQLite-backed implementation of Store. Values live in a
// single kv table keyed by name.
type DB struct {
	db    *sql.DB
	quota int64
}

// NewConnection opens (or creates) the SQLite storage file and applies
// pending migrations. A quota of 0 disables the per-key size bound.
func NewConnection(path string, quota int64) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The store is single-writer; a second connection would only
	// introduce SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &DB{db: db, quota: quota}

	if err := RunMigrations(s); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *DB) Set(key string, value []byte) error {
	if s.quota > 0 && int64(len(value)) > s.quota {
		return fmt.Errorf("cannot store %d bytes under %q: %w", len(value), key, ErrQuotaExceeded)
	}

	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

func (s *DB) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Stats returns the number of stored keys and the total stored bytes.
func (s *DB) Stats() (int, int64, error) {
	var keys int
	var bytes sql.NullInt64
	err := s.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(LENGTH(value)), 0) FROM kv`).Scan(&keys, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get storage stats: %w", err)
	}
	return keys, bytes.Int64, nil
}
