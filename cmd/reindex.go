package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/showcase-labs/kbsearch/internal/db"
	"github.com/showcase-labs/kbsearch/internal/index"
	"github.com/showcase-labs/kbsearch/internal/kb"
	"github.com/showcase-labs/kbsearch/internal/progress"
	"github.com/showcase-labs/kbsearch/internal/vectordb"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the vector index from the knowledge base documents",
	Long: `Reads every configured source document, chunks it, embeds the chunks
and replaces the vector index with the fresh entries. The previous
index is kept if embedding fails entirely.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := kb.Load(loaderConfig(cfg))
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no documents found under %s", cfg.Corpus.RootDir)
	}
	fmt.Printf("Loaded %d documents from %s\n", len(docs), cfg.Corpus.RootDir)

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return err
	}

	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}
	// Load the existing index so a failed rebuild leaves it intact.
	if err := store.Load(ctx, cfg.DataDir); err != nil && verbose {
		fmt.Fprintf(os.Stderr, "no existing index to preserve: %v\n", err)
	}

	builder := index.NewBuilder(embedder, store, index.Config{
		Concurrency:  cfg.Index.Concurrency,
		RateLimitRPM: cfg.Index.RateLimitRPM,
		Reporter:     progress.NewReporter(),
	})

	report, err := builder.Rebuild(ctx, docs)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := store.Persist(ctx, cfg.DataDir); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	database, err := db.Open(databasePath(cfg))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := database.RecordRebuild(report); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record rebuild: %v\n", err)
	}

	fmt.Print(report.Summary())
	return nil
}
