package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"craftmart/internal/models"

	"golang.org/x/sync/singleflight"
)

// Loader produces a result set on cache miss.
type Loader func(ctx context.Context) ([]*models.RankedResult, error)

type localEntry struct {
	results   []*models.RankedResult
	expiresAt time.Time
}

// SearchCache memoizes search result sets under a short TTL and collapses
// concurrent identical lookups into a single upstream call via singleflight.
// Redis is the shared backend; an in-process map takes over transparently
// when Redis is unreachable, so cache trouble never fails a search.
type SearchCache struct {
	backend CacheService
	ttl     time.Duration
	group   singleflight.Group

	mu    sync.RWMutex
	local map[string]localEntry
}

func NewSearchCache(backend CacheService, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SearchCache{
		backend: backend,
		ttl:     ttl,
		local:   make(map[string]localEntry),
	}
}

// CacheKey builds a deterministic cache key from the endpoint name and the
// request parameters. Struct field order makes the JSON encoding canonical
// for a given params type.
func CacheKey(endpoint string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Marshal of plain value structs cannot fail in practice; fall back
		// to an uncacheable-looking but still stable key.
		return fmt.Sprintf("%s:unserializable", endpoint)
	}
	return fmt.Sprintf("%s:%s", endpoint, data)
}

// GetOrLoad returns the cached result set for key, or runs loader exactly
// once for all concurrent callers of the same key and caches its output.
// The second return reports whether the value came from cache.
func (c *SearchCache) GetOrLoad(ctx context.Context, key string, loader Loader) ([]*models.RankedResult, bool, error) {
	if results, ok := c.lookup(ctx, key); ok {
		return results, true, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have populated the
		// cache between our miss and acquiring the flight.
		if results, ok := c.lookup(ctx, key); ok {
			return results, nil
		}

		results, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value.([]*models.RankedResult), false, nil
}

func (c *SearchCache) lookup(ctx context.Context, key string) ([]*models.RankedResult, bool) {
	if c.backend != nil {
		results, err := c.backend.GetSearchResults(ctx, key)
		if err != nil {
			log.Printf("WARN: search cache backend get failed for %s: %v", key, err)
		} else if results != nil {
			return results, true
		}
	}

	c.mu.RLock()
	entry, ok := c.local[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.results, true
	}
	return nil, false
}

func (c *SearchCache) store(ctx context.Context, key string, results []*models.RankedResult) {
	if c.backend != nil {
		if err := c.backend.SetSearchResults(ctx, key, results, c.ttl); err != nil {
			log.Printf("WARN: search cache backend set failed for %s: %v", key, err)
		}
	}

	c.mu.Lock()
	now := time.Now()
	// Sweep expired entries so the fallback map stays bounded while the
	// backend is unreachable.
	for k, entry := range c.local {
		if now.After(entry.expiresAt) {
			delete(c.local, k)
		}
	}
	c.local[key] = localEntry{results: results, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()
}

// ClearKey invalidates a single cached result set.
func (c *SearchCache) ClearKey(ctx context.Context, key string) {
	if c.backend != nil {
		if err := c.backend.DeleteSearchResults(ctx, key); err != nil {
			log.Printf("WARN: search cache backend delete failed for %s: %v", key, err)
		}
	}

	c.mu.Lock()
	delete(c.local, key)
	c.mu.Unlock()
}

// Clear invalidates every cached result set. Called after catalog mutations.
func (c *SearchCache) Clear(ctx context.Context) {
	if c.backend != nil {
		if err := c.backend.InvalidateSearchResults(ctx); err != nil {
			log.Printf("WARN: search cache backend invalidation failed: %v", err)
		}
	}

	c.mu.Lock()
	c.local = make(map[string]localEntry)
	c.mu.Unlock()
}
