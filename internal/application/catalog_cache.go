package application

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// catalogCache keeps reference data lists for a short time. Cities and
// countries only change through migrations, so a stale read is harmless.
type catalogCache[T any] struct {
	lru *expirable.LRU[string, []T]
}

func newCatalogCache[T any](ttl time.Duration, maxEntries int) *catalogCache[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 8
	}
	return &catalogCache[T]{lru: expirable.NewLRU[string, []T](maxEntries, nil, ttl)}
}

// Get returns a copy of the cached list. Expiry is checked under the
// cache's own lock, so a concurrent Store is never lost.
func (c *catalogCache[T]) Get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	items, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return cloneItems(items), true
}

func (c *catalogCache[T]) Store(key string, items []T) {
	if c == nil {
		return
	}
	c.lru.Add(key, cloneItems(items))
}

func (c *catalogCache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

// cloneItems never returns nil so callers can render an empty list.
func cloneItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
