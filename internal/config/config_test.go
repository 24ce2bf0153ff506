package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/showcase-labs/kbsearch/internal/kb"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("provider: got %q", cfg.Provider)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("embedding model: got %q", cfg.EmbeddingModel)
	}
	if cfg.Retrieval.Threshold != 0.2 {
		t.Errorf("threshold: got %f", cfg.Retrieval.Threshold)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("top_k: got %d", cfg.Retrieval.TopK)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".kbsearch.yml")
	content := `model: gpt-4o
retrieval:
  threshold: 0.35
  top_k: 3
server:
  port: 9191
  cache_ttl: 90s
corpus:
  root_dir: knowledge
  sources:
    - path: faq.md
      type: faq
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Model != "gpt-4o" {
		t.Errorf("model: got %q", cfg.Model)
	}
	if cfg.Retrieval.Threshold != 0.35 {
		t.Errorf("threshold: got %f", cfg.Retrieval.Threshold)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("port: got %d", cfg.Server.Port)
	}
	if cfg.Server.CacheTTL != 90*time.Second {
		t.Errorf("cache_ttl: got %s", cfg.Server.CacheTTL)
	}
	if len(cfg.Corpus.Sources) != 1 || cfg.Corpus.Sources[0].Type != kb.SourceFAQ {
		t.Errorf("sources: got %+v", cfg.Corpus.Sources)
	}
	// Untouched keys keep their defaults.
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("embedding model default lost: %q", cfg.EmbeddingModel)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KBSEARCH_MODEL", "gpt-4o")
	t.Setenv("KBSEARCH_SERVER__PORT", "7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("env override for model lost: %q", cfg.Model)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env override for nested key lost: %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unsupported provider", func(c *Config) { c.Provider = "anthropic" }},
		{"missing model", func(c *Config) { c.Model = "" }},
		{"no sources", func(c *Config) { c.Corpus.Sources = nil }},
		{"bad source type", func(c *Config) { c.Corpus.Sources[0].Type = "blog" }},
		{"threshold out of range", func(c *Config) { c.Retrieval.Threshold = 1.5 }},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"zero query cap", func(c *Config) { c.Server.MaxQueryLen = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation failure")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".kbsearch.yml")

	cfg := DefaultConfig()
	cfg.Model = "gpt-4o"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "gpt-4o" {
		t.Errorf("round trip lost model: %q", loaded.Model)
	}
}
