// Package search implements the cached search orchestrator: cache lookup
// first, live Custom Search on a miss, write-through and stats recording.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avkarev/search-bot/internal/logger"
	"github.com/avkarev/search-bot/internal/store"
)

// Provenance says where a result set came from.
type Provenance string

const (
	FromCache Provenance = "cache"
	FromLive  Provenance = "live"
)

// displayLimit caps how many results are returned for rendering.
const displayLimit = 10

// Cache is the slice of the store the searcher reads and writes.
type Cache interface {
	Lookup(ctx context.Context, query string, maxAge time.Duration) ([]store.SearchResult, error)
	Store(ctx context.Context, query string, results []store.SearchResult) error
}

// Stats records one row per answered search.
type Stats interface {
	Record(ctx context.Context, userID int64, query string, resultCount int) error
}

// Backend is a live search source.
type Backend interface {
	Search(ctx context.Context, query string, num int) ([]store.SearchResult, error)
}

// Searcher routes a query through the cache and the live backend.
type Searcher struct {
	cache  Cache
	stats  Stats
	engine Backend
	maxAge time.Duration
	limit  int
}

// NewSearcher wires the orchestrator. maxAge is the cache expiry window,
// limit the number of results requested from the backend.
func NewSearcher(cache Cache, stats Stats, engine Backend, maxAge time.Duration, limit int) *Searcher {
	if limit <= 0 || limit > maxPerCall {
		limit = maxPerCall
	}
	return &Searcher{cache: cache, stats: stats, engine: engine, maxAge: maxAge, limit: limit}
}

// Search answers a query, preferring the cache. Upstream and persistence
// failures degrade: the user gets an empty result set or an uncached live
// one, never an error caused by a collaborator. Only an empty query is an
// error, and callers validate that before dispatching.
func (s *Searcher) Search(ctx context.Context, userID int64, query string) ([]store.SearchResult, Provenance, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, FromLive, fmt.Errorf("empty query")
	}

	results, err := s.cache.Lookup(ctx, q, s.maxAge)
	if err != nil {
		logger.Errorf("cache lookup for %q: %v", q, err)
		results = nil
	}
	prov := FromCache

	if results == nil {
		prov = FromLive
		live, err := s.engine.Search(ctx, q, s.limit)
		if err != nil {
			logger.Errorf("live search for %q: %v", q, err)
			live = nil
		}
		if len(live) > 0 {
			if err := s.cache.Store(ctx, q, live); err != nil {
				// The user already has the results; caching is best-effort.
				logger.Errorf("cache store for %q: %v", q, err)
			}
		}
		results = live
	}

	if len(results) > 0 {
		if err := s.stats.Record(ctx, userID, q, len(results)); err != nil {
			logger.Errorf("stats record for %q: %v", q, err)
		}
	}
	if len(results) > displayLimit {
		results = results[:displayLimit]
	}
	return results, prov, nil
}
