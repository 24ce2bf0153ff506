package main

import (
	"os"

	"github.com/showcase-labs/kbsearch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
