package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/petpal/internal/persistence"
)

// Storage is a persistence.Backend over a single SQLite key-value table.
type Storage struct {
	mu     sync.RWMutex
	db     *sql.DB
	now    func() time.Time
	retry  retryPolicy
	closed bool
}

// Open connects to the database at dsn. Use ":memory:" for a throwaway store.
// Call Migrate before use.
func Open(dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)
	return &Storage{db: db, now: time.Now, retry: defaultRetryPolicy()}, nil
}

// Close releases the database handle.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Migrate creates the key-value table when missing.
func (s *Storage) Migrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key persistence.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrClosed
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key.String()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key persistence.Key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}

	err := s.exec(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key.String(), value, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Remove(ctx context.Context, key persistence.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}

	if err := s.exec(ctx, "DELETE FROM kv WHERE key = ?", key.String()); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Storage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrClosed
	}

	if err := s.exec(ctx, "DELETE FROM kv"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

func (s *Storage) exec(ctx context.Context, query string, args ...any) error {
	return s.retry.do(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Keys lists the stored keys in lexical order.
func (s *Storage) Keys(ctx context.Context) ([]persistence.Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []persistence.Key
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, persistence.Key(key))
	}
	return keys, rows.Err()
}
