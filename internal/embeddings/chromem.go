package embeddings

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"

	"github.com/showcase-labs/kbsearch/internal/rag"
)

// ToChromemFunc adapts an Embedder to chromem's one-text-at-a-time
// EmbeddingFunc. The vector store registers it on its collection, but
// rebuilds always supply precomputed embeddings, so chromem only calls
// it for documents added without one.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 {
			return nil, fmt.Errorf("%w: %s returned no embedding", rag.ErrProvider, e.Name())
		}
		return vecs[0], nil
	}
}
