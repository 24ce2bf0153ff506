package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/showcase-labs/kbsearch/internal/kb"
	"github.com/showcase-labs/kbsearch/internal/rag"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

type fakeEmbedder struct {
	mu     sync.Mutex
	calls  int
	failOn string // substring of content that triggers a failure
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		if f.failOn != "" && strings.Contains(t, f.failOn) {
			return nil, fmt.Errorf("%w: simulated embed failure", rag.ErrProvider)
		}
		out[i] = []float32{float32(len(t)), 1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }
func (f *fakeEmbedder) Name() string    { return "fake" }

type fakeStore struct {
	mu          sync.Mutex
	entries     map[string]vectordb.Entry
	deleteErr   error
	deleteCalls int
	upsertCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]vectordb.Entry{}}
}

func (s *fakeStore) Upsert(_ context.Context, entries []vectordb.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertCalls++
	for _, e := range entries {
		s.entries[e.ID] = e
	}
	return nil
}

func (s *fakeStore) DeleteAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.entries = map[string]vectordb.Entry{}
	return nil
}

func (s *fakeStore) Query(context.Context, []float32, float32, int) ([]vectordb.Result, error) {
	return nil, nil
}

func (s *fakeStore) Persist(context.Context, string) error { return nil }
func (s *fakeStore) Load(context.Context, string) error    { return nil }

func (s *fakeStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var testDocs = []kb.Document{
	{Source: kb.SourceFAQ, RawText: "**Q: How do I log in?**\n**A:** Use your registered e-mail address."},
	{Source: kb.SourceGuide, RawText: "# Setup\n\nInstall the application and sign in.\n\n# Backup\n\nExports run nightly and can be restored."},
}

func TestRebuild(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	builder := NewBuilder(embedder, store, Config{Concurrency: 2})

	report, err := builder.Rebuild(context.Background(), testDocs)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if report.Chunks != 3 {
		t.Errorf("chunks: got %d, want 3", report.Chunks)
	}
	if report.Succeeded != 3 {
		t.Errorf("succeeded: got %d, want 3", report.Succeeded)
	}
	if len(report.Failures) != 0 {
		t.Errorf("unexpected failures: %v", report.Failures)
	}
	if store.Count() != 3 {
		t.Errorf("store count: got %d, want 3", store.Count())
	}
	if store.deleteCalls != 1 {
		t.Errorf("deleteCalls: got %d, want 1", store.deleteCalls)
	}
	if report.RunID == "" {
		t.Error("report is missing a run ID")
	}
}

func TestRebuildSkipsFailedChunks(t *testing.T) {
	embedder := &fakeEmbedder{failOn: "Backup"}
	store := newFakeStore()
	builder := NewBuilder(embedder, store, Config{Concurrency: 2})

	report, err := builder.Rebuild(context.Background(), testDocs)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	if report.Succeeded != 2 {
		t.Errorf("succeeded: got %d, want 2", report.Succeeded)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("failures: got %d, want 1", len(report.Failures))
	}
	if report.Failures[0].Title != "Backup" {
		t.Errorf("failed chunk title: got %q, want Backup", report.Failures[0].Title)
	}
	if store.Count() != 2 {
		t.Errorf("store count: got %d, want 2", store.Count())
	}
}

func TestRebuildAbortsOnDeleteFailure(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := newFakeStore()
	store.deleteErr = fmt.Errorf("%w: connection refused", rag.ErrStore)
	builder := NewBuilder(embedder, store, Config{Concurrency: 1})

	_, err := builder.Rebuild(context.Background(), testDocs)
	if !errors.Is(err, rag.ErrStore) {
		t.Fatalf("expected store error, got %v", err)
	}
	if store.upsertCalls != 0 {
		t.Errorf("no upserts may happen after a failed delete, got %d", store.upsertCalls)
	}
}

func TestRebuildKeepsIndexWhenEverythingFails(t *testing.T) {
	embedder := &fakeEmbedder{failOn: "e"} // every fixture chunk contains an "e"
	store := newFakeStore()
	store.entries["old/entry"] = vectordb.Entry{ID: "old/entry"}
	builder := NewBuilder(embedder, store, Config{Concurrency: 2})

	_, err := builder.Rebuild(context.Background(), testDocs)
	if !errors.Is(err, rag.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if store.deleteCalls != 0 {
		t.Errorf("existing index must survive a total embedding outage, deleteCalls=%d", store.deleteCalls)
	}
	if store.Count() != 1 {
		t.Errorf("old entries should remain, count=%d", store.Count())
	}
}

func TestRebuildCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	embedder := &fakeEmbedder{}
	store := newFakeStore()
	builder := NewBuilder(embedder, store, Config{Concurrency: 1})

	_, err := builder.Rebuild(ctx, testDocs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.deleteCalls != 0 {
		t.Errorf("a canceled rebuild must not clear the index")
	}
}
