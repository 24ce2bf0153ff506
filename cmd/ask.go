package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the knowledge base a question",
	Long:  `Runs the full retrieval pipeline for one question and prints the composed answer.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedder(cfg)
	if err != nil {
		return err
	}
	provider, err := createProvider(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, embedder)
	if err != nil {
		return err
	}

	// One-shot invocation, so the answer cache buys nothing.
	svc := buildService(cfg, embedder, provider, store, true)

	answer, err := svc.Ask(ctx, args[0])
	if err != nil && verbose {
		fmt.Printf("(degraded: %v)\n", err)
	}
	fmt.Println(answer)
	return nil
}
