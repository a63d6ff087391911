package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence marks joined participants in Redis so operators can see who is in
// the classroom without attaching to the process. Markers are best effort:
// a Redis hiccup never affects dispatch, and the TTL cleans up after crashed
// connections.
type Presence struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPresence(client *redis.Client, ttl time.Duration) *Presence {
	return &Presence{client: client, ttl: ttl}
}

func (p *Presence) Track(id, nickname string) {
	_ = p.client.Set(context.Background(), p.key(id), nickname, p.ttl).Err()
}

func (p *Presence) Forget(id string) {
	_ = p.client.Del(context.Background(), p.key(id)).Err()
}

func (p *Presence) key(id string) string {
	return "classroom:participant:" + id
}
