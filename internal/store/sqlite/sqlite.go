package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"tweetsent/internal/store"
)

const schema = `CREATE TABLE IF NOT EXISTS artifacts (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Storage keeps artifacts in a sqlite database file so that separate
// invocations can hand results to each other.
type Storage struct {
	db *sql.DB
}

type Config struct {
	Path string
}

// Open opens or creates the database at cfg.Path.
func Open(cfg Config) (*Storage, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite store: empty path")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", cfg.Path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: init schema: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Put(key string, value any) error {
	data, err := store.Encode(key, value)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO artifacts (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("sqlite store: put %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Get(key string, out any) error {
	var data []byte
	err := s.db.QueryRow(`SELECT value FROM artifacts WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return store.NotFound(key)
	}
	if err != nil {
		return fmt.Errorf("sqlite store: get %s: %w", key, err)
	}
	return store.Decode(key, data, out)
}

func (s *Storage) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM artifacts ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: keys: %w", err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *Storage) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM artifacts`); err != nil {
		return fmt.Errorf("sqlite store: clear: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Storage) Close() error { return s.db.Close() }
