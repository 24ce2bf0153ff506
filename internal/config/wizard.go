package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to kbsearch! Let's configure your knowledge base.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Corpus root.
	rootPrompt := promptui.Prompt{
		Label:   "Directory containing your markdown documents",
		Default: cfg.Corpus.RootDir,
	}
	rootDir, err := rootPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	cfg.Corpus.RootDir = rootDir

	// 2. Chat model.
	modelPrompt := promptui.Select{
		Label: "Select completion model",
		Items: []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"},
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 3. Embedding model.
	embPrompt := promptui.Select{
		Label: "Select embedding model",
		Items: []string{"text-embedding-3-small", "text-embedding-3-large"},
	}
	_, embModel, err := embPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding model selection: %w", err)
	}
	cfg.EmbeddingModel = embModel

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port for the chat API",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration written to %s\n", path)
	fmt.Println("Review corpus.sources in the file to match your document layout,")
	fmt.Println("set OPENAI_API_KEY, then run `kbsearch reindex`.")

	return cfg, nil
}
