// Package cache is an optional Redis-backed query-result cache. It stores
// marshalled results keyed by a normalized query fingerprint and suppresses
// duplicate in-flight computations with singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/fts-lab/searchcore/pkg/config"
	pkgredis "github.com/fts-lab/searchcore/pkg/redis"
)

const keyPrefix = "search:"

// QueryCache caches marshalled query results in Redis.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
	}
}

// Get returns the cached payload for a query, if present.
func (c *QueryCache) Get(ctx context.Context, mode string, query string) ([]byte, bool) {
	key := c.buildKey(mode, query)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "mode", mode, "query", query)
	return []byte(data), true
}

// Set stores a payload for a query with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, mode string, query string, payload []byte) {
	key := c.buildKey(mode, query)
	if err := c.client.Set(ctx, key, payload, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached payload or computes, stores, and returns
// it. The boolean result reports whether the payload came from the cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	mode string,
	query string,
	computeFn func() ([]byte, error),
) ([]byte, bool, error) {
	if payload, ok := c.Get(ctx, mode, query); ok {
		return payload, true, nil
	}
	key := c.buildKey(mode, query)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if payload, ok := c.Get(ctx, mode, query); ok {
			return payload, nil
		}
		payload, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, mode, query, payload)
		return payload, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]byte), false, nil
}

// Invalidate removes every cached query result. Called after a rebuild.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns cumulative hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(mode string, query string) string {
	raw := mode + ":" + normalizeQuery(query)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeQuery canonicalizes term order within each operator class so that
// queries differing only in word order share a cache entry.
func normalizeQuery(query string) string {
	var required, excluded, optional []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		switch {
		case len(w) > 1 && w[0] == '+':
			required = append(required, w[1:])
		case len(w) > 1 && w[0] == '-':
			excluded = append(excluded, w[1:])
		default:
			optional = append(optional, w)
		}
	}
	sort.Strings(required)
	sort.Strings(excluded)
	sort.Strings(optional)
	parts := []string{strings.Join(required, ",")}
	parts = append(parts, strings.Join(excluded, ","), strings.Join(optional, ","))
	return strings.Join(parts, "|")
}
