package store

import (
	"context"
	"time"
)

// Record appends one stats row. The query is stored as the user typed it,
// not normalized, and repeated identical calls append repeated rows: this
// is an event log, not a table of facts.
func (s *Store) Record(ctx context.Context, userID int64, query string, resultCount int) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO search_stats (user_id, query, result_count, created_at)
		VALUES (?, ?, ?, ?)`,
		userID, query, resultCount, time.Now().UnixMilli())
	return err
}

// Summary returns aggregate usage counters and the five most frequent
// queries, grouped by exact text, ties broken by first occurrence.
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_stats`).Scan(&sum.TotalSearches); err != nil {
		return nil, err
	}
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM search_stats`).Scan(&sum.UniqueUsers); err != nil {
		return nil, err
	}
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_cache`).Scan(&sum.CachedEntries); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT query, COUNT(*) AS n
		FROM search_stats
		GROUP BY query
		ORDER BY n DESC, MIN(id) ASC
		LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, err
		}
		sum.TopQueries = append(sum.TopQueries, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &sum, nil
}
