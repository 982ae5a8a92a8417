// Package dnscache provides a thread-safe, TTL-based cache in front of a
// deliverability resolver, with singleflight deduplication for concurrent
// requests to the same domain.
package dnscache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Resolver is the lookup the cache sits in front of.
type Resolver interface {
	HasDeliverabilityRecord(ctx context.Context, domain string) (bool, error)
}

// Cache is a thread-safe deliverability lookup cache. It satisfies Resolver
// itself, so it can stand in for the resolver it wraps.
// Concurrent lookups for the same domain are deduplicated:
// only one actual DNS query is performed, and all waiters receive the result.
// Only definitive answers are cached; failed lookups are retried.
type Cache struct {
	mu            sync.Mutex
	entries       map[string]entry
	group         singleflight.Group
	cacheTTL      time.Duration
	lookupTimeout time.Duration
	resolver      Resolver
	lastSweep     time.Time
}

type entry struct {
	found   bool
	expires time.Time
}

// New creates a cache with the given per-lookup timeout and cache TTL.
func New(r Resolver, lookupTimeout, cacheTTL time.Duration) *Cache {
	return &Cache{
		entries:       make(map[string]entry),
		cacheTTL:      cacheTTL,
		lookupTimeout: lookupTimeout,
		resolver:      r,
	}
}

// HasDeliverabilityRecord returns the cached answer for domain, or performs
// the lookup. The shared lookup is detached from ctx cancellation and runs
// under the cache's own timeout; ctx only bounds how long this caller waits.
func (c *Cache) HasDeliverabilityRecord(ctx context.Context, domain string) (bool, error) {
	key := strings.ToLower(domain)
	if found, ok := c.get(key); ok {
		return found, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if found, ok := c.get(key); ok {
			return found, nil
		}

		lctx := context.WithoutCancel(ctx)
		if c.lookupTimeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(lctx, c.lookupTimeout)
			defer cancel()
		}

		found, err := c.resolver.HasDeliverabilityRecord(lctx, key)
		if err != nil {
			return false, err
		}
		c.put(key, found)
		return found, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (c *Cache) get(key string) (found, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return false, false
	}
	return e.found, true
}

// put stores an answer. Expired entries are swept at most once per TTL.
func (c *Cache) put(key string, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastSweep) >= c.cacheTTL {
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}
	c.entries[key] = entry{found: found, expires: now.Add(c.cacheTTL)}
}

// Len returns the number of entries in the cache (for diagnostics).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
