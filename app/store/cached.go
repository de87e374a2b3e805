package store

import (
	"context"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	log "github.com/go-pkgz/lgr"
)

// Cached wraps Store and memoizes successful results, keyed by call arguments, for ttl.
// Errors are passed through and never cached.
type Cached struct {
	Store
	cache cache.Cache[string, []Posting]
}

// NewCached makes memoizing store. Zero ttl returns the original store as is.
func NewCached(s Store, ttl time.Duration, maxKeys int) Store {
	if ttl <= 0 {
		return s
	}
	if maxKeys <= 0 {
		maxKeys = 1000
	}
	return &Cached{
		Store: s,
		cache: cache.NewCache[string, []Posting]().WithTTL(ttl).WithMaxKeys(maxKeys).WithLRU(),
	}
}

// List returns memoized list of all postings
func (c *Cached) List(ctx context.Context) ([]Posting, error) {
	return c.get(ctx, "list", c.Store.List)
}

// Search returns memoized search results for the query
func (c *Cached) Search(ctx context.Context, query string) ([]Posting, error) {
	return c.get(ctx, "search:"+query, func(ctx context.Context) ([]Posting, error) {
		return c.Store.Search(ctx, query)
	})
}

func (c *Cached) get(ctx context.Context, key string, fn func(context.Context) ([]Posting, error)) ([]Posting, error) {
	if res, ok := c.cache.Get(key); ok {
		log.Printf("[DEBUG] cache hit for %s", key)
		return res, nil
	}
	res, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, res, 0)
	return res, nil
}
