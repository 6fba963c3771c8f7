package storage

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"fta/internal/metrics"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// HashContent returns the lowercase hex BLAKE2b-256 digest of content.
func HashContent(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// CacheEntry is one analyzed file ready to be stored.
type CacheEntry struct {
	Path            string
	ContentHash     string
	IncludeComments bool
	Metrics         metrics.FileMetrics
}

// Cache stores per-file analysis results keyed by path and comment mode. A
// lookup only hits when the stored content hash matches.
type Cache struct {
	db  *DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCache creates a cache on db. Close releases the codec state; it does not
// close db.
func NewCache(db *DB) (*Cache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{db: db, enc: enc, dec: dec}, nil
}

// Close releases the encoder and decoder.
func (c *Cache) Close() error {
	c.dec.Close()
	return c.enc.Close()
}

// Get returns the cached metrics for path when contentHash matches the stored
// hash. A stale or missing entry reports false with a nil error.
func (c *Cache) Get(ctx context.Context, path, contentHash string, includeComments bool) (metrics.FileMetrics, bool, error) {
	var storedHash string
	var payload []byte

	err := c.db.conn.QueryRowContext(ctx, `
		SELECT content_hash, payload
		FROM file_cache
		WHERE path = ? AND include_comments = ?
	`, path, boolInt(includeComments)).Scan(&storedHash, &payload)
	if err == sql.ErrNoRows {
		return metrics.FileMetrics{}, false, nil
	}
	if err != nil {
		return metrics.FileMetrics{}, false, fmt.Errorf("file cache lookup failed: %w", err)
	}
	if storedHash != contentHash {
		return metrics.FileMetrics{}, false, nil
	}

	raw, err := c.dec.DecodeAll(payload, nil)
	if err != nil {
		return metrics.FileMetrics{}, false, fmt.Errorf("corrupt cache payload for %s: %w", path, err)
	}
	var fm metrics.FileMetrics
	if err := json.Unmarshal(raw, &fm); err != nil {
		return metrics.FileMetrics{}, false, fmt.Errorf("corrupt cache payload for %s: %w", path, err)
	}
	return fm, true, nil
}

// PutAll stores entries in a single transaction, replacing older rows.
func (c *Cache) PutAll(ctx context.Context, entries []CacheEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC().Format(timeLayout)

	return c.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO file_cache (path, content_hash, include_comments, payload, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare cache insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			raw, err := json.Marshal(e.Metrics)
			if err != nil {
				return fmt.Errorf("failed to encode metrics for %s: %w", e.Path, err)
			}
			payload := c.enc.EncodeAll(raw, nil)
			if _, err := stmt.ExecContext(ctx, e.Path, e.ContentHash, boolInt(e.IncludeComments), payload, now); err != nil {
				return fmt.Errorf("failed to store cache entry for %s: %w", e.Path, err)
			}
		}
		return nil
	})
}

// Count returns the number of cached entries.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM file_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Clear removes every cached entry and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int64, error) {
	res, err := c.db.conn.ExecContext(ctx, "DELETE FROM file_cache")
	if err != nil {
		return 0, fmt.Errorf("failed to clear file cache: %w", err)
	}
	return res.RowsAffected()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
