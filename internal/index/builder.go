// Package index rebuilds the searchable vector index from the document
// corpus: chunk, embed, delete-all, insert (full-replace semantics).
package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/showcase-labs/kbsearch/internal/embeddings"
	"github.com/showcase-labs/kbsearch/internal/kb"
	"github.com/showcase-labs/kbsearch/internal/progress"
	"github.com/showcase-labs/kbsearch/internal/rag"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

// Config controls rebuild concurrency and throttling.
type Config struct {
	// Concurrency bounds the number of in-flight embedding calls.
	Concurrency int
	// RateLimitRPM caps embedding calls per minute (0 = unlimited).
	RateLimitRPM int
	// Reporter receives per-chunk progress updates. Optional.
	Reporter progress.Reporter
}

// Builder orchestrates chunker, embedder and vector store to rebuild the
// index. A rebuild first deletes all prior entries, then inserts fresh
// ones, so the index never contains stale chunks from edited documents.
// Rebuilds are serialized; the brief empty-index window during a rebuild
// is an accepted trade-off for a catalog-sized corpus.
type Builder struct {
	embedder embeddings.Embedder
	store    vectordb.VectorStore
	cfg      Config
	limiter  *rate.Limiter

	mu sync.Mutex // single-writer: rebuilds must not overlap
}

// NewBuilder creates a Builder.
func NewBuilder(embedder embeddings.Embedder, store vectordb.VectorStore, cfg Config) *Builder {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	var limiter *rate.Limiter
	if cfg.RateLimitRPM > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimitRPM)/60.0), cfg.RateLimitRPM)
	}
	return &Builder{
		embedder: embedder,
		store:    store,
		cfg:      cfg,
		limiter:  limiter,
	}
}

type embedResult struct {
	entry vectordb.Entry
	err   error
}

// Rebuild chunks every document, embeds each chunk, then replaces the
// stored index. Per-chunk embedding failures are recorded in the report
// and skipped. A failure to clear the existing index is fatal and aborts
// before any insert, so the store is never left half-rebuilt.
func (b *Builder) Rebuild(ctx context.Context, docs []kb.Document) (*Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	var chunks []kb.Chunk
	for _, doc := range docs {
		chunks = append(chunks, kb.Split(doc)...)
	}
	report.Chunks = len(chunks)

	if b.cfg.Reporter != nil {
		b.cfg.Reporter.Start(len(chunks))
		defer b.cfg.Reporter.Finish()
	}

	results := b.embedChunks(ctx, chunks)

	// A canceled run must not wipe the existing index.
	if err := ctx.Err(); err != nil {
		report.Duration = time.Since(report.StartedAt)
		return report, err
	}

	var entries []vectordb.Entry
	for i, res := range results {
		if res.err != nil {
			report.Failures = append(report.Failures, Failure{Title: chunks[i].Title, Reason: res.err.Error()})
			continue
		}
		entries = append(entries, res.entry)
	}

	// If nothing embedded at all, keep the old index rather than
	// replacing it with an empty one.
	if len(entries) == 0 && len(chunks) > 0 {
		report.Duration = time.Since(report.StartedAt)
		return report, fmt.Errorf("%w: all %d chunks failed to embed", rag.ErrProvider, len(chunks))
	}

	if err := b.store.DeleteAll(ctx); err != nil {
		report.Duration = time.Since(report.StartedAt)
		return report, fmt.Errorf("clearing existing index: %w", err)
	}

	for _, e := range entries {
		if err := b.store.Upsert(ctx, []vectordb.Entry{e}); err != nil {
			report.Failures = append(report.Failures, Failure{Title: e.Title, Reason: err.Error()})
			continue
		}
		report.Succeeded++
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// embedChunks embeds chunks with bounded concurrency, preserving chunk
// order in the returned slice so reports are deterministic.
func (b *Builder) embedChunks(ctx context.Context, chunks []kb.Chunk) []embedResult {
	results := make([]embedResult, len(chunks))

	sem := make(chan struct{}, b.cfg.Concurrency)
	var wg sync.WaitGroup
	var done int64
	var progressMu sync.Mutex

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			results[i] = embedResult{err: ctx.Err()}
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, c kb.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			if b.limiter != nil {
				if err := b.limiter.Wait(ctx); err != nil {
					results[i] = embedResult{err: err}
					return
				}
			}

			vecs, err := b.embedder.Embed(ctx, []string{c.Content})
			if err != nil {
				results[i] = embedResult{err: err}
			} else if len(vecs) == 0 {
				results[i] = embedResult{err: fmt.Errorf("%w: empty embedding response", rag.ErrProvider)}
			} else {
				results[i] = embedResult{entry: vectordb.NewEntry(c, vecs[0])}
			}

			if b.cfg.Reporter != nil {
				progressMu.Lock()
				done++
				b.cfg.Reporter.Update(int(done), c.Title)
				progressMu.Unlock()
			}
		}(i, chunk)
	}

	wg.Wait()
	return results
}
