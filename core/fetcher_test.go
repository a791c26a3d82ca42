package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/huangsam/digger/internal/fetch"
)

// mapFetcher serves fixed bodies by location and counts calls.
type mapFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  atomic.Int32
	seen   []string
}

func newMapFetcher(bodies map[string]string) *mapFetcher {
	return &mapFetcher{bodies: bodies}
}

func (m *mapFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.seen = append(m.seen, location)
	m.mu.Unlock()

	body, ok := m.bodies[location]
	if !ok {
		return nil, &fetch.RequestError{URL: location, StatusCode: 404, Err: fmt.Errorf("not found")}
	}
	return []byte(body), nil
}
