package config

import (
	"time"

	"github.com/showcase-labs/kbsearch/internal/kb"
)

// SourceConfig names one corpus document (or glob) and its source type.
type SourceConfig struct {
	Path string        `yaml:"path" koanf:"path"`
	Type kb.SourceType `yaml:"type" koanf:"type"`
}

// CorpusConfig describes where the knowledge-base documents live.
type CorpusConfig struct {
	RootDir string         `yaml:"root_dir" koanf:"root_dir"`
	Sources []SourceConfig `yaml:"sources" koanf:"sources"`
	Exclude []string       `yaml:"exclude" koanf:"exclude"`
}

// IndexConfig controls rebuild concurrency and API throttling.
type IndexConfig struct {
	Concurrency  int `yaml:"concurrency" koanf:"concurrency"`
	RateLimitRPM int `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
}

// RetrievalConfig holds the query-time tuning knobs.
type RetrievalConfig struct {
	Threshold   float64 `yaml:"threshold" koanf:"threshold"`
	TopK        int     `yaml:"top_k" koanf:"top_k"`
	MaxVariants int     `yaml:"max_variants" koanf:"max_variants"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port        int           `yaml:"port" koanf:"port"`
	AllowAll    bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	MaxQueryLen int           `yaml:"max_query_len" koanf:"max_query_len"`
	CacheSize   int           `yaml:"cache_size" koanf:"cache_size"`
	CacheTTL    time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
}

// Config is the top-level kbsearch configuration, corresponding to
// .kbsearch.yml.
type Config struct {
	Provider       string `yaml:"provider" koanf:"provider"`
	Model          string `yaml:"model" koanf:"model"`
	ExpansionModel string `yaml:"expansion_model" koanf:"expansion_model"`
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`
	DataDir        string `yaml:"data_dir" koanf:"data_dir"`

	Corpus    CorpusConfig    `yaml:"corpus" koanf:"corpus"`
	Index     IndexConfig     `yaml:"index" koanf:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
	Server    ServerConfig    `yaml:"server" koanf:"server"`
}
