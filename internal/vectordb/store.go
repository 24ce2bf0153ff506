package vectordb

import "context"

// VectorStore persists embedded knowledge-base entries and answers
// nearest-neighbor queries above a similarity threshold.
type VectorStore interface {
	// Upsert adds or overwrites entries, keyed by Entry.ID.
	Upsert(ctx context.Context, entries []Entry) error

	// DeleteAll removes every entry from the index. Rebuilds call this
	// before inserting fresh entries (full-replace semantics).
	DeleteAll(ctx context.Context) error

	// Query returns the k entries nearest to the given embedding whose
	// cosine similarity is at least threshold, sorted descending.
	Query(ctx context.Context, embedding []float32, threshold float32, k int) ([]Result, error)

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error

	// Count returns the total number of entries in the store.
	Count() int
}
