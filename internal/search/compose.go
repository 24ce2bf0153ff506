package search

import (
	"context"
	"log"
	"strings"

	"github.com/showcase-labs/kbsearch/internal/llm"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

const (
	// NoContextAnswer is returned when retrieval surfaced nothing
	// relevant; the completion provider is not called in that case.
	NoContextAnswer = "申し訳ありません。該当する商品・情報が見つかりませんでした。"

	// FallbackAnswer is returned when the completion provider fails.
	// The chat-facing surface must always return some string.
	FallbackAnswer = "申し訳ありません。現在回答できません。"

	contextSeparator = "\n---\n"
)

const composeSystemPrompt = `あなたはPortfolio Showcaseの専門AIアシスタントです。以下のコンテキスト（商品・FAQ・ガイド）だけを根拠に、ユーザーの質問に日本語で簡潔かつ正確に答えてください。コンテキストにない情報を推測で補わないでください。

【コンテキスト】
`

// Composer assembles retrieved context into a prompt and produces the
// final natural-language answer.
type Composer struct {
	provider llm.Provider
	model    string
}

// NewComposer creates a Composer.
func NewComposer(provider llm.Provider, model string) *Composer {
	return &Composer{provider: provider, model: model}
}

// Answer builds the grounded prompt from the merged context and calls
// the completion provider once. An empty context short-circuits to the
// fixed no-information message; a provider failure degrades to a fixed
// apology. Errors are never propagated to the chat-facing caller.
func (c *Composer) Answer(ctx context.Context, query string, results []vectordb.Result) string {
	if len(results) == 0 {
		return NoContextAnswer
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: composeSystemPrompt + strings.Join(contents, contextSeparator)},
			{Role: llm.RoleUser, Content: query},
		},
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("answer generation failed: %v", err)
		return FallbackAnswer
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return FallbackAnswer
	}
	return answer
}
