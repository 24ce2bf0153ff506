package cmd

import (
	"github.com/spf13/cobra"

	"github.com/showcase-labs/kbsearch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize kbsearch configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure kbsearch for your knowledge base and generates a .kbsearch.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
