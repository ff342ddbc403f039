package referral

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is the read-cache freshness window when none is configured.
const DefaultCacheTTL = 60 * time.Second

// cachedStore decorates a Store with a short-lived LoadAll cache. Any
// successful write invalidates, so the next read reflects the new state;
// otherwise reads within the TTL may be stale. That is the consistency the
// system promises: eventual, not linearizable.
type cachedStore struct {
	inner Store
	ttl   time.Duration

	mu        sync.RWMutex
	records   []*Referral
	valid     bool
	fetchedAt time.Time
}

// NewCachedStore wraps inner with a read cache. A non-positive ttl falls
// back to DefaultCacheTTL.
func NewCachedStore(inner Store, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedStore{inner: inner, ttl: ttl}
}

func (c *cachedStore) LoadAll(ctx context.Context) ([]*Referral, error) {
	c.mu.RLock()
	// valid, not records != nil: an empty store caches a nil slice too.
	if c.valid && time.Since(c.fetchedAt) < c.ttl {
		records := c.records
		c.mu.RUnlock()
		return records, nil
	}
	c.mu.RUnlock()

	records, err := c.inner.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.records = records
	c.valid = true
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return records, nil
}

func (c *cachedStore) Append(ctx context.Context, r *Referral) error {
	if err := c.inner.Append(ctx, r); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

func (c *cachedStore) UpdateField(ctx context.Context, id, header, value string) error {
	if err := c.inner.UpdateField(ctx, id, header, value); err != nil {
		return err
	}
	c.invalidate()
	return nil
}

func (c *cachedStore) invalidate() {
	c.mu.Lock()
	c.records = nil
	c.valid = false
	c.mu.Unlock()
}
