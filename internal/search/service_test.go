package search

import (
	"context"
	"testing"
	"time"

	"github.com/showcase-labs/kbsearch/internal/kb"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

func newTestService(t *testing.T, provider *fakeProvider) *Service {
	t.Helper()

	store := &memoryStore{entries: []vectordb.Entry{
		{ID: "product/Simple TODO", Source: kb.SourceProduct, Title: "Simple TODO", Content: "シンプルなタスク管理アプリ", Embedding: []float32{0, 1, 0}},
	}}
	embedder := &vectorEmbedder{vectors: map[string][]float32{
		"タスク管理アプリが欲しい": {0, 1, 0},
	}}

	retriever := NewRetriever(&fixedExpander{}, embedder, store)
	composer := NewComposer(provider, "test-model")
	return NewService(retriever, composer, ServiceConfig{
		Threshold: 0.2,
		TopK:      3,
		CacheSize: 8,
		CacheTTL:  time.Minute,
	})
}

func TestAsk(t *testing.T) {
	provider := &fakeProvider{response: "Simple TODOがおすすめです。"}
	svc := newTestService(t, provider)

	answer, err := svc.Ask(context.Background(), "タスク管理アプリが欲しい")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "Simple TODOがおすすめです。" {
		t.Errorf("got %q", answer)
	}
}

func TestAskCachesAnswers(t *testing.T) {
	provider := &fakeProvider{response: "cached answer"}
	svc := newTestService(t, provider)

	if _, err := svc.Ask(context.Background(), "タスク管理アプリが欲しい"); err != nil {
		t.Fatalf("first Ask: %v", err)
	}
	if _, err := svc.Ask(context.Background(), "タスク管理アプリが欲しい"); err != nil {
		t.Fatalf("second Ask: %v", err)
	}

	if provider.callCount() != 1 {
		t.Errorf("second identical query should hit the cache, provider calls = %d", provider.callCount())
	}
}

func TestAskDoesNotCacheApologies(t *testing.T) {
	provider := &fakeProvider{err: context.DeadlineExceeded}
	svc := newTestService(t, provider)

	// Provider down: the composer degrades to the apology.
	answer, err := svc.Ask(context.Background(), "タスク管理アプリが欲しい")
	if err != nil {
		t.Fatalf("first Ask: %v", err)
	}
	if answer != FallbackAnswer {
		t.Fatalf("got %q, want the fallback answer", answer)
	}

	// Provider recovers: the same query must reach it again instead of
	// replaying the cached apology.
	provider.err = nil
	provider.response = "Simple TODOがおすすめです。"

	answer, err = svc.Ask(context.Background(), "タスク管理アプリが欲しい")
	if err != nil {
		t.Fatalf("second Ask: %v", err)
	}
	if answer != "Simple TODOがおすすめです。" {
		t.Errorf("got %q, want the fresh answer", answer)
	}
	if provider.callCount() != 2 {
		t.Errorf("recovered query should bypass the cache, provider calls = %d", provider.callCount())
	}
}

func TestAskAlwaysReturnsAnAnswer(t *testing.T) {
	provider := &fakeProvider{response: "unused"}
	svc := newTestService(t, provider)

	// Unknown query: the embedder has no vector scripted, every variant
	// fails, and Ask must still hand back a usable string.
	answer, err := svc.Ask(context.Background(), "未知のクエリ")
	if err == nil {
		t.Error("expected a logged error for a fully failed retrieval")
	}
	if answer != FallbackAnswer {
		t.Errorf("got %q, want the fallback answer", answer)
	}
}

func TestAnswerCacheExpiry(t *testing.T) {
	cache := newAnswerCache(2, 10*time.Millisecond)
	cache.set("q", "a")

	if _, ok := cache.get("q"); !ok {
		t.Fatal("expected a cache hit before expiry")
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.get("q"); ok {
		t.Fatal("expected the entry to expire")
	}
}

func TestAnswerCacheCapacity(t *testing.T) {
	cache := newAnswerCache(2, time.Minute)
	cache.set("a", "1")
	cache.set("b", "2")
	cache.set("c", "3")

	if len(cache.entries) > 2 {
		t.Errorf("cache exceeded its capacity: %d entries", len(cache.entries))
	}
	if _, ok := cache.get("c"); !ok {
		t.Error("most recent entry should survive eviction")
	}
}
