package cep

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/employees/internal/logging"
)

// CacheBackend is the part of a Redis client the cache uses.
// *redis.Client and *redis.ClusterClient satisfy it.
type CacheBackend interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedLookuper serves repeated lookups from Redis.
//
// Only successful lookups are cached. Redis failures are logged and the
// lookup falls through to the wrapped Lookuper.
type CachedLookuper struct {
	next   Lookuper
	rdb    CacheBackend
	prefix string
	ttl    time.Duration
}

// CacheOption configures a CachedLookuper.
type CacheOption func(*CachedLookuper)

// WithCachePrefix sets the key prefix (default "cep").
func WithCachePrefix(prefix string) CacheOption {
	return func(c *CachedLookuper) {
		if p := strings.Trim(prefix, ":"); p != "" {
			c.prefix = p
		}
	}
}

// WithCacheTTL sets how long an address is kept. Zero keeps it forever.
func WithCacheTTL(d time.Duration) CacheOption {
	return func(c *CachedLookuper) { c.ttl = d }
}

// NewCachedLookuper wraps next with a Redis cache.
func NewCachedLookuper(next Lookuper, rdb CacheBackend, opts ...CacheOption) *CachedLookuper {
	c := &CachedLookuper{
		next:   next,
		rdb:    rdb,
		prefix: "cep",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the cached address for code, or looks it up and caches it.
func (c *CachedLookuper) Lookup(ctx context.Context, code string) (Address, error) {
	digits := Digits(code)
	if len(digits) != 8 {
		return c.next.Lookup(ctx, code)
	}

	key := c.prefix + ":" + digits
	log := logging.WithFields(ctx, "cache_key", key)

	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		var addr Address
		if jerr := json.Unmarshal([]byte(raw), &addr); jerr == nil {
			log.Debug("postal code cache hit")
			return addr, nil
		}
		log.Warn("discarding unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn("postal code cache read failed", "error", err)
	}

	addr, err := c.next.Lookup(ctx, code)
	if err != nil {
		return Address{}, err
	}

	buf, err := json.Marshal(addr)
	if err == nil {
		err = c.rdb.Set(ctx, key, buf, c.ttl).Err()
	}
	if err != nil {
		log.Warn("postal code cache write failed", "error", err)
	}
	return addr, nil
}
