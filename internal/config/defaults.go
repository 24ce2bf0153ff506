package config

import (
	"time"

	"github.com/showcase-labs/kbsearch/internal/kb"
)

// DefaultSources mirrors the standard layout of a showcase documentation
// directory: a product catalog, FAQ, and user/technical guides.
var DefaultSources = []SourceConfig{
	{Path: "products/products_database.md", Type: kb.SourceProduct},
	{Path: "faq.md", Type: kb.SourceFAQ},
	{Path: "workflow-guide.md", Type: kb.SourceGuide},
	{Path: "technical-documentation.md", Type: kb.SourceTechnicalDoc},
	{Path: "pricing.md", Type: kb.SourceGuide},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		ExpansionModel: "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
		DataDir:        ".kbsearch",
		Corpus: CorpusConfig{
			RootDir: "docs",
			Sources: DefaultSources,
		},
		Index: IndexConfig{
			Concurrency:  4,
			RateLimitRPM: 60,
		},
		Retrieval: RetrievalConfig{
			Threshold:   0.2,
			TopK:        5,
			MaxVariants: 5,
		},
		Server: ServerConfig{
			Port:        8080,
			MaxQueryLen: 500,
			CacheSize:   256,
			CacheTTL:    5 * time.Minute,
		},
	}
}
