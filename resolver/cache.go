package resolver

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rgonek/quill-md-converter/renderer"
	"golang.org/x/sync/singleflight"
)

// Cache remembers resolved URLs for a limited time and merges concurrent
// lookups of the same token. Failures are not cached.
type Cache struct {
	next  renderer.Resolver
	items *gocache.Cache
	group singleflight.Group
}

// NewCache wraps next. Entries expire after ttl and are purged every
// cleanup interval.
func NewCache(next renderer.Resolver, ttl, cleanup time.Duration) *Cache {
	return &Cache{
		next:  next,
		items: gocache.New(ttl, cleanup),
	}
}

// Resolve implements renderer.Resolver.
func (c *Cache) Resolve(ctx context.Context, token string) (string, error) {
	if v, ok := c.items.Get(token); ok {
		return v.(string), nil
	}

	ch := c.group.DoChan(token, func() (any, error) {
		url, err := c.next.Resolve(ctx, token)
		if err != nil {
			return "", err
		}
		c.items.Set(token, url, gocache.DefaultExpiration)
		return url, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Forget drops token from the cache.
func (c *Cache) Forget(token string) {
	c.items.Delete(token)
}

// Len returns the number of cached entries, expired ones included until purged.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
