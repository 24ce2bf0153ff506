package vectordb

import (
	"context"
	"fmt"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/showcase-labs/kbsearch/internal/embeddings"
	"github.com/showcase-labs/kbsearch/internal/kb"
	"github.com/showcase-labs/kbsearch/internal/rag"
)

const collectionName = "knowledge_base"

// ChromemStore implements VectorStore using chromem-go.
type ChromemStore struct {
	db        *chromem.DB
	embedFunc chromem.EmbeddingFunc

	mu         sync.RWMutex // guards collection, swapped by DeleteAll and Load
	collection *chromem.Collection
}

// NewChromemStore creates a new in-memory ChromemStore. The embedder is
// only consulted by chromem for documents added without a precomputed
// embedding; the index builder always supplies embeddings explicitly.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection: %v", rag.ErrStore, err)
	}

	return &ChromemStore{
		db:         db,
		collection: col,
		embedFunc:  ef,
	}, nil
}

func (s *ChromemStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Content,
			Embedding: e.Embedding,
			Metadata: map[string]string{
				"source": string(e.Source),
				"title":  e.Title,
			},
		}
	}

	s.mu.RLock()
	col := s.collection
	s.mu.RUnlock()

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("%w: upsert %d entries: %v", rag.ErrStore, len(entries), err)
	}
	return nil
}

func (s *ChromemStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("%w: delete collection: %v", rag.ErrStore, err)
	}

	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("%w: recreate collection: %v", rag.ErrStore, err)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, threshold float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	col := s.collection
	s.mu.RUnlock()

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", rag.ErrStore, err)
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Similarity < threshold {
			continue
		}
		out = append(out, Result{
			EntryID:    r.ID,
			Source:     kb.SourceType(r.Metadata["source"]),
			Title:      r.Metadata["title"],
			Content:    r.Content,
			Similarity: r.Similarity,
		})
	}
	return out, nil
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	if err := s.db.ExportToFile(dir+"/index.gob.gz", true, ""); err != nil {
		return fmt.Errorf("%w: persist: %v", rag.ErrStore, err)
	}
	return nil
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ImportFromFile(dir+"/index.gob.gz", ""); err != nil {
		return fmt.Errorf("%w: load: %v", rag.ErrStore, err)
	}

	// Re-acquire collection reference after import.
	col := s.db.GetCollection(collectionName, s.embedFunc)
	if col == nil {
		return fmt.Errorf("%w: collection %q not found after import", rag.ErrStore, collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Count()
}
