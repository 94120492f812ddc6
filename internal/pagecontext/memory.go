// internal/pagecontext/memory.go
package pagecontext

import (
	"context"
	"sync"
	"time"

	"adserve-core/internal/models"
)

type memoryEntry struct {
	desc     *models.PageDescription
	storedAt time.Time
}

// MemoryCache is the default in-process cache backend. The clock is injected
// so expiry is testable without sleeping.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCacheWithClock(ttl, time.Now)
}

func NewMemoryCacheWithClock(ttl time.Duration, now func() time.Time) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*models.PageDescription, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if c.now().Sub(entry.storedAt) > c.ttl {
		// Lazy eviction: expired entries are removed on read.
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.storedAt.Equal(entry.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return entry.desc, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, desc *models.PageDescription) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{desc: desc, storedAt: c.now()}
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
