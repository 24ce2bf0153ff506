package search

import (
	"context"
	"time"

	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

// ServiceConfig holds the query-time tuning knobs.
type ServiceConfig struct {
	Threshold    float32
	TopK         int
	CacheSize    int
	CacheTTL     time.Duration
	CallTimeout  time.Duration // per-request deadline for the full pipeline
	DisableCache bool
}

// Service ties expansion, retrieval and composition together behind a
// single Ask call used by the HTTP server and the CLI.
type Service struct {
	retriever *Retriever
	composer  *Composer
	cfg       ServiceConfig
	cache     *answerCache
}

// NewService creates a Service. The answer cache is owned by the
// service instance, not shared process-wide.
func NewService(retriever *Retriever, composer *Composer, cfg ServiceConfig) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}

	s := &Service{retriever: retriever, composer: composer, cfg: cfg}
	if !cfg.DisableCache {
		s.cache = newAnswerCache(cfg.CacheSize, cfg.CacheTTL)
	}
	return s
}

// Ask answers a user query end to end. The returned string is always a
// usable answer (a real answer, the no-information message, or the
// apology fallback); the error, when non-nil, exists for logging only.
func (s *Service) Ask(ctx context.Context, query string) (string, error) {
	if s.cache != nil {
		if answer, ok := s.cache.get(query); ok {
			return answer, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()

	results, err := s.Retrieve(ctx, query)
	if err != nil {
		return FallbackAnswer, err
	}

	answer := s.composer.Answer(ctx, query, results)
	// The apology means the provider failed; caching it would keep
	// apologizing for the whole TTL after the provider recovers.
	if s.cache != nil && answer != FallbackAnswer {
		s.cache.set(query, answer)
	}
	return answer, nil
}

// Retrieve exposes raw ranked retrieval with the service's configured
// threshold and top-k, for the debug/operator surfaces.
func (s *Service) Retrieve(ctx context.Context, query string) ([]vectordb.Result, error) {
	return s.retriever.Retrieve(ctx, query, s.cfg.Threshold, s.cfg.TopK)
}
