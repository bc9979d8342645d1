package auth0

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// MinRefreshInterval bounds how often an unknown kid may force a refetch
const MinRefreshInterval = 30 * time.Second

// KeySetRefresher is implemented by fetchers that hold a key set and can be
// asked to replace it, e.g. after the tenant rotates its signing key.
type KeySetRefresher interface {
	RefreshKeySet(ctx context.Context) (*KeySet, error)
}

// CachingKeySetFetcher keeps the last fetched key set for a fixed TTL.
// Concurrent misses share a single upstream request. Errors are not cached.
type CachingKeySetFetcher struct {
	next       FetcherFunc
	ttl        time.Duration
	minRefresh time.Duration
	now        func() time.Time

	mu        sync.RWMutex
	keySet    *KeySet
	fetchedAt time.Time
	expiresAt time.Time

	group singleflight.Group
}

// FetcherFunc adapts a function to KeySetFetcher
type FetcherFunc func(ctx context.Context) (*KeySet, error)

// FetchKeySet calls f(ctx)
func (f FetcherFunc) FetchKeySet(ctx context.Context) (*KeySet, error) {
	return f(ctx)
}

// NewCachingKeySetFetcher wraps next with a TTL cache
func NewCachingKeySetFetcher(next KeySetFetcher, ttl time.Duration) *CachingKeySetFetcher {
	return &CachingKeySetFetcher{
		next:       next.FetchKeySet,
		ttl:        ttl,
		minRefresh: MinRefreshInterval,
		now:        time.Now,
	}
}

// FetchKeySet returns the cached key set or refreshes it
func (c *CachingKeySetFetcher) FetchKeySet(ctx context.Context) (*KeySet, error) {
	c.mu.RLock()
	if c.keySet != nil && c.now().Before(c.expiresAt) {
		defer c.mu.RUnlock()
		return c.keySet, nil
	}
	c.mu.RUnlock()

	return c.load(ctx)
}

// RefreshKeySet refetches the key set unless the held one is younger than
// MinRefreshInterval, in which case the held set is returned unchanged.
func (c *CachingKeySetFetcher) RefreshKeySet(ctx context.Context) (*KeySet, error) {
	c.mu.RLock()
	if c.keySet != nil && c.now().Before(c.fetchedAt.Add(c.minRefresh)) {
		defer c.mu.RUnlock()
		return c.keySet, nil
	}
	c.mu.RUnlock()

	return c.load(ctx)
}

func (c *CachingKeySetFetcher) load(ctx context.Context) (*KeySet, error) {
	v, err, _ := c.group.Do("jwks", func() (interface{}, error) {
		// the caller that wins the flight must not be able to cancel it for the others
		keySet, err := c.next(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.keySet = keySet
		c.fetchedAt = c.now()
		c.expiresAt = c.fetchedAt.Add(c.ttl)
		c.mu.Unlock()

		return keySet, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*KeySet), nil
}

// Invalidate drops the cached key set so the next call refetches
func (c *CachingKeySetFetcher) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keySet = nil
	c.fetchedAt = time.Time{}
	c.expiresAt = time.Time{}
}

// Cached reports whether a non-expired key set is held
func (c *CachingKeySetFetcher) Cached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keySet != nil && c.now().Before(c.expiresAt)
}
