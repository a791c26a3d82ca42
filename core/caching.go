package core

import (
	"cmp"
	"context"
	"sync"
	"time"

	"github.com/huangsam/digger/internal/contract"
	"github.com/huangsam/digger/internal/fetch"
	"github.com/huangsam/digger/internal/iocache"
)

// cachingFetcher serves remote locations through a ResponseCache.
// Local paths always go to the underlying fetcher.
type cachingFetcher struct {
	next  contract.Fetcher
	cache *iocache.ResponseCache
}

var (
	_ contract.Fetcher = &cachingFetcher{} // Compile-time check
	_ contract.Evicter = &cachingFetcher{} // Compile-time check
)

// Fetch returns the cached body for location, fetching it on a miss.
func (c *cachingFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if c.cache == nil || !fetch.IsRemote(location) {
		return c.next.Fetch(ctx, location)
	}
	return c.cache.GetOrPopulate(ctx, iocache.CacheKey(location), func(ctx context.Context) ([]byte, error) {
		return c.next.Fetch(ctx, location)
	})
}

// Evict forgets the cached body of a remote location.
func (c *cachingFetcher) Evict(location string) {
	if c.cache != nil && fetch.IsRemote(location) {
		c.cache.Evict(iocache.CacheKey(location))
	}
}

// newFetcher builds the HTTP client for cfg, fronted by the response cache.
// A nil manager or a manager without a store still gets the in-memory tier.
func newFetcher(cfg *contract.Config, mgr contract.CacheManager) contract.Fetcher {
	client := fetch.NewClient(cfg.Timeout)
	return withCache(client, cfg, mgr)
}

// withCache wraps next with the shared response cache for cfg and mgr.
func withCache(next contract.Fetcher, cfg *contract.Config, mgr contract.CacheManager) contract.Fetcher {
	return &cachingFetcher{next: next, cache: sharedCache(cfg, mgr)}
}

// cacheSettings identifies one shared ResponseCache.
type cacheSettings struct {
	store contract.CacheStore
	ttl   time.Duration
	size  int
}

// responseCaches lives for the whole process, so the in-memory tier serves
// repeated commands and every tool call of a long-running MCP server.
var (
	responseCachesMu sync.Mutex
	responseCaches   = map[cacheSettings]*iocache.ResponseCache{}
)

// sharedCache returns the ResponseCache for the durable store of mgr and the
// TTL and memo size of cfg, creating it on first use.
func sharedCache(cfg *contract.Config, mgr contract.CacheManager) *iocache.ResponseCache {
	key := cacheSettings{
		ttl:  cmp.Or(max(cfg.CacheTTL, 0), contract.DefaultCacheTTL),
		size: cmp.Or(max(cfg.MemoSize, 0), contract.DefaultMemoSize),
	}
	if mgr != nil {
		key.store = mgr.GetResponseStore()
	}

	responseCachesMu.Lock()
	defer responseCachesMu.Unlock()
	c, ok := responseCaches[key]
	if !ok {
		c = iocache.NewResponseCache(key.store, key.ttl, key.size)
		responseCaches[key] = c
	}
	return c
}
