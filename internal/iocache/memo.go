package iocache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/logger"
	"golang.org/x/sync/singleflight"
)

// currentCacheVersion defines the version of the cached response format.
const currentCacheVersion = 1

// Entry is a cached response body and the moment it stops being valid.
type Entry struct {
	Value  []byte
	Expiry time.Time
}

// ResponseCache is a read-through cache keyed by dataset location.
// Hits are served from an in-memory TTL memo, then from the durable store.
// Concurrent misses for the same key share one fill.
type ResponseCache struct {
	memo  *expirable.LRU[string, Entry]
	store contract.CacheStore
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

// NewResponseCache builds a cache over an optional durable store.
func NewResponseCache(store contract.CacheStore, ttl time.Duration, size int) *ResponseCache {
	return &ResponseCache{
		memo:  expirable.NewLRU[string, Entry](size, nil, ttl),
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// CacheKey hashes a location into a fixed-width store key.
func CacheKey(location string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(location)))
}

// Get returns the cached entry for key when it is present and unexpired.
func (c *ResponseCache) Get(key string) (Entry, bool) {
	now := c.now()
	if entry, ok := c.memo.Get(key); ok && now.Before(entry.Expiry) {
		return entry, true
	}
	if c.store == nil {
		return Entry{}, false
	}

	data, version, ts, err := c.store.Get(key)
	if err != nil || version != currentCacheVersion {
		return Entry{}, false // Cache miss
	}
	expiry := time.Unix(ts, 0).Add(c.ttl)
	if !now.Before(expiry) {
		return Entry{}, false // Stale
	}

	entry := Entry{Value: data, Expiry: expiry}
	c.memo.Add(key, entry)
	return entry, true
}

// Set stores value under key in both tiers.
// A durable write failure is logged and does not fail the call.
func (c *ResponseCache) Set(key string, value []byte) Entry {
	now := c.now()
	entry := Entry{Value: value, Expiry: now.Add(c.ttl)}
	c.memo.Add(key, entry)
	if c.store != nil {
		if err := c.store.Set(key, value, currentCacheVersion, now.Unix()); err != nil {
			logger.WithError(err).WithField("key", key).Warn("cannot persist cache entry")
		}
	}
	return entry
}

// GetOrPopulate returns the cached value for key, calling fill on a miss.
// Errors from fill are returned and never cached. Concurrent callers share
// one fill, which runs detached from any single caller's cancellation; a
// cancelled caller stops waiting and gets its context error.
func (c *ResponseCache) GetOrPopulate(ctx context.Context, key string, fill func(context.Context) ([]byte, error)) ([]byte, error) {
	if entry, ok := c.Get(key); ok {
		logger.WithField("key", key).Debug("cache hit")
		return entry.Value, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if entry, ok := c.Get(key); ok {
			return entry.Value, nil
		}
		value, err := fill(shared)
		if err != nil {
			return nil, err
		}
		return c.Set(key, value).Value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Evict drops key from both tiers, e.g. when its body turned out to be unusable.
func (c *ResponseCache) Evict(key string) {
	c.memo.Remove(key)
	if c.store == nil {
		return
	}
	if err := c.store.Delete(key); err != nil {
		logger.WithError(err).WithField("key", key).Warn("cannot evict cache entry")
	}
}

// Len returns the number of entries held in memory.
func (c *ResponseCache) Len() int {
	return c.memo.Len()
}

// Purge drops every in-memory entry. The durable store is untouched.
func (c *ResponseCache) Purge() {
	c.memo.Purge()
}
