package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/avkarev/search-bot/internal/logger"
)

// NormalizeQuery lower-cases and trims a query for use as the cache key.
// Queries differing only in case or surrounding whitespace share one entry.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Lookup returns the cached result set for query if an entry exists and is
// no older than maxAge. A miss returns (nil, nil). Malformed persisted data
// also reads as a miss: corruption must never surface as a fault.
func (s *Store) Lookup(ctx context.Context, query string, maxAge time.Duration) ([]SearchResult, error) {
	key := NormalizeQuery(query)
	cutoff := time.Now().Add(-maxAge).UnixMilli()

	var raw string
	err := s.DB.QueryRowContext(ctx,
		`SELECT results FROM search_cache WHERE query = ? AND created_at >= ?`,
		key, cutoff).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		logger.Warnf("cache: malformed entry for %q treated as miss: %v", key, err)
		return nil, nil
	}
	return results, nil
}

// Store upserts the result set under the normalized query key, resetting
// created_at. Storing the same (query, results) twice leaves one row.
func (s *Store) Store(ctx context.Context, query string, results []SearchResult) error {
	key := NormalizeQuery(query)
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO search_cache (query, results, created_at) VALUES (?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			results    = excluded.results,
			created_at = excluded.created_at`,
		key, string(raw), time.Now().UnixMilli())
	return err
}

// ClearAll deletes every cache entry. Irreversible.
func (s *Store) ClearAll(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM search_cache`)
	return err
}

// PruneOlderThan deletes entries created strictly before now minus the
// given number of days and returns how many were removed.
func (s *Store) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UnixMilli()
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM search_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountEntries returns the number of live cache rows.
func (s *Store) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_cache`).Scan(&n)
	return n, err
}
