package ristretto

import (
	"fmt"
	"time"

	"github.com/aquanorma/credentials/cache"
	"github.com/dgraph-io/ristretto/v2"
)

var _ cache.Cache[string, any] = (*Cache[any])(nil)

// Cache adapts a string keyed ristretto cache to cache.Cache. Writes block
// until ristretto has applied them, so a Get right after a Set sees it.
type Cache[V any] struct {
	cache *ristretto.Cache[string, V]
}

func (rc *Cache[V]) Get(key string) (V, bool) {
	return rc.cache.Get(key)
}

func (rc *Cache[V]) Set(key string, value V, cost int64) bool {
	ok := rc.cache.Set(key, value, cost)
	rc.cache.Wait()
	return ok
}

func (rc *Cache[V]) SetWithTTL(key string, value V, cost int64, ttl time.Duration) bool {
	ok := rc.cache.SetWithTTL(key, value, cost, ttl)
	rc.cache.Wait()
	return ok
}

// Close stops the ristretto goroutines.
func (rc *Cache[V]) Close() {
	rc.cache.Close()
}

var levels = map[string]struct {
	counters int64
	maxCost  int64
}{
	"small":      {counters: 1e4, maxCost: 1 << 20},
	"medium":     {counters: 1e5, maxCost: 1 << 24},
	"large":      {counters: 1e6, maxCost: 1 << 27},
	"very-large": {counters: 1e7, maxCost: 1 << 30},
}

// New creates a cache sized by level: small, medium, large or very-large.
// Costs are counted in entries, so maxCost bounds the number of keys.
func New[V any](level string) (*Cache[V], error) {
	l, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("ristretto: unknown cache level %q", level)
	}

	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: l.counters,
		MaxCost:     l.maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache[V]{cache: c}, nil
}
