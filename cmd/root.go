package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kbsearch",
	Short: "Knowledge base search with semantic retrieval and chat answers",
	Long: `kbsearch chunks a markdown knowledge base, embeds it into a local
vector index, and answers customer questions over HTTP or the CLI
using retrieval-augmented generation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".kbsearch.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
