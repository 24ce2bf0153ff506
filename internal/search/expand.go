// Package search implements the query-time half of the pipeline: query
// expansion, retrieval with cross-variant merging, and answer composition.
package search

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/showcase-labs/kbsearch/internal/llm"
)

const expandSystemPrompt = `あなたは、ユーザークエリを拡張し、より多様な検索キーワードを生成する専門家です。元のクエリに関連する、異なる表現や同義語を提案してください。`

// enumMarker matches leading list markers such as "1. ", "2) ", "- ", "* ".
var enumMarker = regexp.MustCompile(`^(\d+[.)]\s*|[-*・]\s*)`)

// QueryExpander produces a small set of semantically related variants for
// a user query. The first element of the returned slice is always the
// original query.
type QueryExpander interface {
	Expand(ctx context.Context, query string) []string
}

// Expander expands queries through a completion provider.
type Expander struct {
	provider    llm.Provider
	model       string
	maxVariants int
}

// NewExpander creates an Expander. maxVariants caps the number of
// generated variants, not counting the original query.
func NewExpander(provider llm.Provider, model string, maxVariants int) *Expander {
	if maxVariants <= 0 {
		maxVariants = 5
	}
	return &Expander{provider: provider, model: model, maxVariants: maxVariants}
}

// Expand asks the model for 3-5 alternate phrasings and parses them out
// of the response. Any provider failure degrades to the original query
// alone; expansion is never allowed to fail a retrieval.
func (e *Expander) Expand(ctx context.Context, query string) []string {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: expandSystemPrompt},
			{Role: llm.RoleUser, Content: "以下のクエリに対して、関連する検索キーワードを3-5個生成してください：\n\n\"" + query + "\""},
		},
		MaxTokens:   100,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("query expansion failed, falling back to original query: %v", err)
		return []string{query}
	}

	return append([]string{query}, parseVariants(resp.Content, query, e.maxVariants)...)
}

// parseVariants turns a model response into discrete variants: one per
// line, enumeration markers stripped, trimmed, empties and duplicates
// dropped.
func parseVariants(content, original string, max int) []string {
	seen := map[string]bool{original: true}
	var variants []string

	for _, line := range strings.Split(content, "\n") {
		v := strings.TrimSpace(enumMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		v = strings.Trim(v, `"「」`)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
		if len(variants) == max {
			break
		}
	}
	return variants
}
