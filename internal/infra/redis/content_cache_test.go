package redis

import (
	"context"
	"testing"
	"time"

	"classroom-live-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type staticLoader struct {
	sets  map[string]domain.ContentSet
	calls int
}

func (l *staticLoader) LoadContent(_ context.Context, setID string) (domain.ContentSet, error) {
	l.calls++
	if set, ok := l.sets[setID]; ok {
		return set, nil
	}
	return domain.ContentSet{}, domain.ErrContentNotFound
}

func newTestCache(t *testing.T) (*ContentCache, *staticLoader, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	loader := &staticLoader{sets: map[string]domain.ContentSet{
		"set-1": {
			ID:                  "set-1",
			QuizQuestions:       []domain.QuizQuestion{{Question: "q1", Options: []string{"a", "b"}, Answer: "b"}},
			DiscussionQuestions: []domain.DiscussionQuestion{{Question: "d1", Reason: "r1"}},
		},
	}}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewContentCache(client, loader, time.Minute), loader, mr
}

func TestContentCacheFillsRedis(t *testing.T) {
	cache, loader, mr := newTestCache(t)
	ctx := context.Background()

	set, err := cache.GetContent(ctx, "set-1")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if len(set.QuizQuestions) != 1 || set.QuizQuestions[0].Answer != "b" {
		t.Fatalf("unexpected content: %+v", set)
	}
	if !mr.Exists("content:set-1") {
		t.Fatalf("expected redis key to be set")
	}

	// Second fetch should come from redis, not the loader.
	if _, err := cache.GetContent(ctx, "set-1"); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected single loader call, got %d", loader.calls)
	}
}

func TestContentCacheMiss(t *testing.T) {
	cache, _, _ := newTestCache(t)
	if _, err := cache.GetContent(context.Background(), "missing"); err != domain.ErrContentNotFound {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}
