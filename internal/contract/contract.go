// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/digger/schema"
)

// Fetcher retrieves the raw body behind a dataset location.
// This allows the metric loaders to be tested without a network.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Evicter is implemented by fetchers that can forget the stored body of a location.
type Evicter interface {
	Evict(location string)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetResponseStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	Prune(cutoff time.Time) (int64, error)
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
