// Package cache fronts slow reads with Redis, or an in-process cache when no
// Redis is configured.
package cache

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key; ttl <= 0 keeps it until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryCache keeps values in process through go-cache. Expired keys are
// swept every cleanupInterval.
type MemoryCache struct {
	items *gocache.Cache
}

const cleanupInterval = time.Minute

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), v.([]byte)...), nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.items.Delete(key)
	return nil
}
