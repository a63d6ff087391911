package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"classroom-live-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ContentCache caches content sets with TTL to avoid repeated DB hits.
type ContentCache struct {
	loader ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedContent
}

type cachedContent struct {
	set       domain.ContentSet
	expiresAt time.Time
}

func NewContentCache(loader ContentLoader, ttl time.Duration) *ContentCache {
	return &ContentCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedContent),
	}
}

func (c *ContentCache) GetContent(ctx context.Context, setID string) (domain.ContentSet, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[setID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.set, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(setID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[setID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.set, nil
		}
		c.mu.RUnlock()

		set, err := c.loader.LoadContent(ctx, setID)
		if err != nil {
			return domain.ContentSet{}, err
		}

		c.mu.Lock()
		c.cache[setID] = cachedContent{
			set:       set,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return set, nil
	})
	if err != nil {
		return domain.ContentSet{}, err
	}
	return result.(domain.ContentSet), nil
}

func (c *ContentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
