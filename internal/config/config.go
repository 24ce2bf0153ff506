package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (KBSEARCH_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: KBSEARCH_MODEL -> model,
	// KBSEARCH_SERVER__PORT -> server.port, etc.
	if err := k.Load(env.Provider("KBSEARCH_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "KBSEARCH_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider != "openai" {
		return fmt.Errorf("invalid provider %q: only openai is supported", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if len(c.Corpus.Sources) == 0 {
		return fmt.Errorf("corpus.sources must not be empty")
	}
	for _, src := range c.Corpus.Sources {
		if src.Path == "" {
			return fmt.Errorf("corpus source with empty path")
		}
		if !src.Type.Valid() {
			return fmt.Errorf("invalid source type %q for %s", src.Type, src.Path)
		}
	}

	if c.Index.Concurrency < 0 {
		return fmt.Errorf("index.concurrency must be non-negative")
	}
	if c.Index.RateLimitRPM < 0 {
		return fmt.Errorf("index.rate_limit_rpm must be non-negative")
	}

	if c.Retrieval.Threshold < -1 || c.Retrieval.Threshold > 1 {
		return fmt.Errorf("retrieval.threshold must be within [-1, 1]")
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxQueryLen <= 0 {
		return fmt.Errorf("server.max_query_len must be positive")
	}

	return nil
}
