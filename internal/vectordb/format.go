package vectordb

import (
	"fmt"
	"strings"
)

// FormatResults renders ranked results as human-readable text.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Result %d (similarity: %.4f) ---\n", i+1, r.Similarity))
		if r.Source != "" {
			sb.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
		}
		if r.Title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", r.Title))
		}
		sb.WriteString("\n")
		sb.WriteString(r.Content)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
