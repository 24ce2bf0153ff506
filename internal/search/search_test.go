package search

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/showcase-labs/kbsearch/internal/llm"
	"github.com/showcase-labs/kbsearch/internal/rag"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

// fakeProvider is a scripted llm.Provider counting its invocations.
type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (p *fakeProvider) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompletionResponse{Content: p.response}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// fixedExpander returns a preset variant list without any provider call.
type fixedExpander struct {
	variants []string
}

func (e *fixedExpander) Expand(_ context.Context, query string) []string {
	if len(e.variants) == 0 {
		return []string{query}
	}
	return e.variants
}

// vectorEmbedder maps exact texts to preset unit vectors.
type vectorEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (e *vectorEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			return nil, fmt.Errorf("%w: no vector scripted for %q", rag.ErrProvider, t)
		}
		out[i] = v
	}
	return out, nil
}

func (e *vectorEmbedder) Dimensions() int { return 3 }
func (e *vectorEmbedder) Name() string    { return "fake" }

// memoryStore answers Query by cosine similarity over its entries.
type memoryStore struct {
	entries []vectordb.Entry
	err     error
}

func (s *memoryStore) Upsert(_ context.Context, entries []vectordb.Entry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *memoryStore) DeleteAll(context.Context) error {
	s.entries = nil
	return nil
}

func (s *memoryStore) Query(_ context.Context, embedding []float32, threshold float32, k int) ([]vectordb.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	var results []vectordb.Result
	for _, e := range s.entries {
		sim := cosine(embedding, e.Embedding)
		if sim < threshold {
			continue
		}
		results = append(results, vectordb.Result{
			EntryID:    e.ID,
			Source:     e.Source,
			Title:      e.Title,
			Content:    e.Content,
			Similarity: sim,
		})
	}
	// Highest similarity first, like the real store.
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Similarity > results[j-1].Similarity; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *memoryStore) Persist(context.Context, string) error { return nil }
func (s *memoryStore) Load(context.Context, string) error    { return nil }
func (s *memoryStore) Count() int                            { return len(s.entries) }

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
