package search

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/showcase-labs/kbsearch/internal/embeddings"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

// Retriever embeds the original query and its expansions, queries the
// vector store once per variant, and merges the per-variant results into
// a single ranked, deduplicated context.
type Retriever struct {
	expander QueryExpander
	embedder embeddings.Embedder
	store    vectordb.VectorStore
}

// NewRetriever creates a Retriever.
func NewRetriever(expander QueryExpander, embedder embeddings.Embedder, store vectordb.VectorStore) *Retriever {
	return &Retriever{expander: expander, embedder: embedder, store: store}
}

// Retrieve returns at most k entries with similarity >= threshold, sorted
// descending by similarity. Per-variant sub-queries run concurrently;
// a failing variant contributes nothing, and only when every variant
// fails does Retrieve return an error. An empty result is a valid
// outcome meaning "no relevant context".
func (r *Retriever) Retrieve(ctx context.Context, query string, threshold float32, k int) ([]vectordb.Result, error) {
	if k < 1 {
		return nil, nil
	}

	variants := r.expander.Expand(ctx, query)

	perVariant := make([][]vectordb.Result, len(variants))
	errs := make([]error, len(variants))

	var wg sync.WaitGroup
	for i, variant := range variants {
		wg.Add(1)
		go func(i int, variant string) {
			defer wg.Done()
			results, err := r.queryVariant(ctx, variant, threshold, k)
			if err != nil {
				log.Printf("sub-query for variant %q failed: %v", variant, err)
				errs[i] = err
				return
			}
			perVariant[i] = results
		}(i, variant)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("retrieval aborted: %w", err)
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == len(variants) {
		return nil, fmt.Errorf("all %d retrieval sub-queries failed: %w", len(variants), errors.Join(errs...))
	}

	return merge(perVariant, k), nil
}

func (r *Retriever) queryVariant(ctx context.Context, variant string, threshold float32, k int) ([]vectordb.Result, error) {
	vecs, err := r.embedder.Embed(ctx, []string{variant})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("empty embedding for variant %q", variant)
	}
	return r.store.Query(ctx, vecs[0], threshold, k)
}

// merge concatenates the per-variant result lists in variant order,
// deduplicates by entry ID keeping the highest-similarity occurrence,
// sorts descending by similarity (stable, so equal scores retain
// concatenation order), and truncates to k.
func merge(perVariant [][]vectordb.Result, k int) []vectordb.Result {
	var merged []vectordb.Result
	byID := make(map[string]int)

	for _, results := range perVariant {
		for _, res := range results {
			if idx, ok := byID[res.EntryID]; ok {
				if res.Similarity > merged[idx].Similarity {
					merged[idx] = res
				}
				continue
			}
			byID[res.EntryID] = len(merged)
			merged = append(merged, res)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Similarity > merged[j].Similarity
	})

	if len(merged) > k {
		merged = merged[:k]
	}
	return merged
}
