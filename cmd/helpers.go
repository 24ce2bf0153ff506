package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/showcase-labs/kbsearch/internal/config"
	"github.com/showcase-labs/kbsearch/internal/embeddings"
	"github.com/showcase-labs/kbsearch/internal/kb"
	"github.com/showcase-labs/kbsearch/internal/llm"
	"github.com/showcase-labs/kbsearch/internal/search"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `kbsearch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedder creates the embedder configured in cfg.
func createEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for embeddings")
	}
	return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
}

// createProvider creates the completion provider configured in cfg. The
// per-minute quota from the index section also throttles completions,
// since both draw on the same upstream API limit.
func createProvider(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, err
	}
	return llm.NewRateLimitedProvider(provider, cfg.Index.RateLimitRPM), nil
}

// openStore creates a vector store and loads the persisted index from the
// data directory. A missing index is reported but not fatal; callers see
// an empty store until `kbsearch reindex` runs.
func openStore(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder) (*vectordb.ChromemStore, error) {
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	if err := store.Load(ctx, cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load index from %s: %v\n", cfg.DataDir, err)
		fmt.Fprintf(os.Stderr, "Search results will be empty. Run `kbsearch reindex` first.\n")
	}
	return store, nil
}

// buildService wires expander, retriever and composer into the search
// service shared by ask, search and serve.
func buildService(cfg *config.Config, embedder embeddings.Embedder, provider llm.Provider, store vectordb.VectorStore, disableCache bool) *search.Service {
	expansionModel := cfg.ExpansionModel
	if expansionModel == "" {
		expansionModel = cfg.Model
	}

	expander := search.NewExpander(provider, expansionModel, cfg.Retrieval.MaxVariants)
	retriever := search.NewRetriever(expander, embedder, store)
	composer := search.NewComposer(provider, cfg.Model)

	return search.NewService(retriever, composer, search.ServiceConfig{
		Threshold:    float32(cfg.Retrieval.Threshold),
		TopK:         cfg.Retrieval.TopK,
		CacheSize:    cfg.Server.CacheSize,
		CacheTTL:     cfg.Server.CacheTTL,
		DisableCache: disableCache,
	})
}

// loaderConfig converts the corpus section into loader input.
func loaderConfig(cfg *config.Config) kb.LoaderConfig {
	sources := make([]kb.SourceSpec, 0, len(cfg.Corpus.Sources))
	for _, src := range cfg.Corpus.Sources {
		sources = append(sources, kb.SourceSpec{Path: src.Path, Type: src.Type})
	}
	return kb.LoaderConfig{
		RootDir: cfg.Corpus.RootDir,
		Sources: sources,
		Exclude: cfg.Corpus.Exclude,
	}
}

func databasePath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "kbsearch.db")
}
