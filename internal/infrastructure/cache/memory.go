package cache

import (
	"context"
	"sync"
	"time"

	"github.com/beanery/storefront/internal/domain"
)

// entry is a stored payload with its expiry
type entry struct {
	payload   []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCache is a thread-safe in-memory store for JSON payloads with TTL
// support. It backs both the product cache and session carts.
type MemoryCache struct {
	data     map[string]entry
	mutex    sync.RWMutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a cache that sweeps expired entries every interval.
// A zero interval uses ten minutes.
func NewMemoryCache(sweepInterval time.Duration) *MemoryCache {
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Minute
	}

	cache := &MemoryCache{
		data: make(map[string]entry),
		stop: make(chan struct{}),
	}
	go cache.sweep(sweepInterval)

	return cache
}

// Get returns a copy of the stored payload
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	if !ok || e.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}

	return append([]byte(nil), e.payload...), nil
}

// Set stores a copy of the payload for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = entry{
		payload:   append([]byte(nil), value...),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.data[key]
	return ok && !e.expired(time.Now()), nil
}

// sweep removes expired entries until Close is called
func (c *MemoryCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.removeExpired(now)
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := 0
	for key, e := range c.data {
		if e.expired(now) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Close stops the sweeper goroutine
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Size returns the current number of items in the cache, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]entry)
}
