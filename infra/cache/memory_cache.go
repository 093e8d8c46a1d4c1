package cache

import (
	"context"
	"sync"
	"time"

	"github.com/lensastro/astroapi/pkg/cache"
	"github.com/lensastro/astroapi/pkg/domain"
)

// MemoryCache implements ExchangeRateCache in process memory. Expired
// entries are dropped when read.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	rate      domain.ExchangeRate
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string]cacheEntry),
		now:   time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.ExchangeRate, error) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.cache[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.cache, key)
		}
		c.mu.Unlock()
		return nil, nil
	}
	rate := entry.rate
	return &rate, nil
}

func (c *MemoryCache) Set(
	_ context.Context,
	key string,
	rate *domain.ExchangeRate,
	ttl time.Duration,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = cacheEntry{rate: *rate, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
	return nil
}

var _ cache.ExchangeRateCache = (*MemoryCache)(nil)
