package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"classroom-live-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ContentLoader fetches question content from a backing store.
type ContentLoader interface {
	LoadContent(ctx context.Context, setID string) (domain.ContentSet, error)
}

// ContentCache caches whole content sets in Redis as JSON values and falls
// back to the loader on a miss. Key: content:{setID}
type ContentCache struct {
	client *redis.Client
	loader ContentLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewContentCache(client *redis.Client, loader ContentLoader, ttl time.Duration) *ContentCache {
	return &ContentCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ContentCache) GetContent(ctx context.Context, setID string) (domain.ContentSet, error) {
	key := c.key(setID)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil && len(raw) > 0 {
		var set domain.ContentSet
		if err := json.Unmarshal(raw, &set); err == nil {
			return set, nil
		}
	}

	result, err, _ := c.sf.Do(setID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil && len(raw) > 0 {
			var set domain.ContentSet
			if err := json.Unmarshal(raw, &set); err == nil {
				return set, nil
			}
		}

		set, err := c.loader.LoadContent(ctx, setID)
		if err != nil {
			return domain.ContentSet{}, err
		}

		if encoded, err := json.Marshal(set); err == nil {
			_ = c.client.Set(ctx, key, encoded, c.ttlWithJitter()).Err()
		}
		return set, nil
	})
	if err != nil {
		return domain.ContentSet{}, err
	}
	return result.(domain.ContentSet), nil
}

func (c *ContentCache) key(setID string) string {
	return "content:" + setID
}

func (c *ContentCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
