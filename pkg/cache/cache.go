// Package cache provides a SQLite-backed key/value store with TTL
// semantics, used by the orchestration shell to avoid redundant
// provider calls. Values are zstd-compressed on disk.
//
// The scoring core never touches the cache; only the surrounding shell
// reads and writes it.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DefaultTTL is the default entry lifetime.
const DefaultTTL = 24 * time.Hour

// Config configures the cache store.
type Config struct {
	// DatabasePath is the SQLite file path.
	DatabasePath string

	// TTL is how long entries stay valid. Expired entries read as
	// misses and are removed by Purge.
	TTL time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: filepath.Join(os.TempDir(), "defisentry", "cache.db"),
		TTL:          DefaultTTL,
	}
}

// Store is a SQLite-backed TTL cache.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	ttl time.Duration

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewStore opens (and if needed creates) the cache database.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	dir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	s := &Store{
		db:      db,
		ttl:     ttl,
		encoder: encoder,
		decoder: decoder,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// initSchema creates the cache table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_updated_at ON cache(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached value for key. The second return value is false
// for both missing and expired entries.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value []byte
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT value, updated_at FROM cache WHERE key = ?
	`, key).Scan(&value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if time.Since(time.Unix(updatedAt, 0)) > s.ttl {
		return nil, false, nil
	}

	decoded, err := s.decoder.DecodeAll(value, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress value: %w", err)
	}

	return decoded, true, nil
}

// Put stores a value under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	compressed := s.encoder.EncodeAll(value, nil)

	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO cache (key, value, updated_at) VALUES (?, ?, ?)
	`, key, compressed, time.Now().Unix())

	return err
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM cache WHERE key = ?`, key)
	return err
}

// Purge removes all expired entries and returns how many were deleted.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-s.ttl).Unix()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM cache WHERE updated_at < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Len returns the number of entries, expired ones included.
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache`).Scan(&count)
	return count, err
}

// Ping verifies the underlying database connection. Health checks use it.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.encoder.Close()
	s.decoder.Close()
	return s.db.Close()
}
