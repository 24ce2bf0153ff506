// Package embeddings turns knowledge-base chunks and search queries into
// vectors for the index.
package embeddings

import "context"

// Embedder produces embedding vectors for texts. The index builder feeds
// it chunk contents in batches; the retriever feeds it single query
// variants.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the width of the vectors this embedder emits.
	Dimensions() int

	// Name identifies the embedding model.
	Name() string
}
