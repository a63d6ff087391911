package memory

import (
	"context"
	"testing"
	"time"

	"classroom-live-service/internal/domain"
)

type countingLoader struct {
	inner ContentLoader
	calls int
}

func (l *countingLoader) LoadContent(ctx context.Context, setID string) (domain.ContentSet, error) {
	l.calls++
	return l.inner.LoadContent(ctx, setID)
}

func TestContentCacheHitsLoaderOnce(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{inner: NewStaticContentLoader(map[string]domain.ContentSet{
		"set-1": {ID: "set-1", QuizQuestions: []domain.QuizQuestion{{Question: "q", Answer: "a"}}},
	})}
	cache := NewContentCache(loader, 5*time.Minute)

	for i := 0; i < 3; i++ {
		set, err := cache.GetContent(ctx, "set-1")
		if err != nil {
			t.Fatalf("get content: %v", err)
		}
		if len(set.QuizQuestions) != 1 {
			t.Fatalf("unexpected content: %+v", set)
		}
	}
	if loader.calls != 1 {
		t.Fatalf("expected single loader call, got %d", loader.calls)
	}
}

func TestContentCachePropagatesMiss(t *testing.T) {
	cache := NewContentCache(NewStaticContentLoader(nil), time.Minute)
	if _, err := cache.GetContent(context.Background(), "missing"); err != domain.ErrContentNotFound {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestDefaultContentSetShape(t *testing.T) {
	set := DefaultContentSet()
	if len(set.QuizQuestions) == 0 || len(set.DiscussionQuestions) == 0 {
		t.Fatalf("expected built-in lesson to have content")
	}
	for _, q := range set.QuizQuestions {
		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
			}
		}
		if !found {
			t.Fatalf("answer %q not among options for %q", q.Answer, q.Question)
		}
	}
}
