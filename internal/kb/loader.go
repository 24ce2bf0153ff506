package kb

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/showcase-labs/kbsearch/internal/rag"
)

// SourceSpec names one corpus source: a path (or doublestar glob, relative
// to the corpus root) and the source type its files carry.
type SourceSpec struct {
	Path string
	Type SourceType
}

// LoaderConfig controls corpus discovery.
type LoaderConfig struct {
	RootDir string
	Sources []SourceSpec
	Exclude []string // doublestar globs, matched against root-relative paths
}

// Load reads every configured source file into a Document. Glob patterns
// are expanded; exclude patterns are applied to the expanded set. Files
// are returned in a stable order (sources in config order, glob matches
// sorted) so a rebuild over an unchanged corpus is deterministic.
func Load(cfg LoaderConfig) ([]Document, error) {
	root := cfg.RootDir
	if root == "" {
		root = "."
	}

	var docs []Document
	for _, src := range cfg.Sources {
		if !src.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown source type %q for %s", rag.ErrValidation, src.Type, src.Path)
		}

		paths, err := expand(root, src.Path)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			rel, relErr := filepath.Rel(root, p)
			if relErr == nil && matchesAny(rel, cfg.Exclude) {
				continue
			}

			raw, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("reading source %s: %w", p, err)
			}
			if strings.TrimSpace(string(raw)) == "" {
				continue
			}
			docs = append(docs, Document{Source: src.Type, RawText: string(raw)})
		}
	}
	return docs, nil
}

// expand resolves a source path against the root. Plain paths must exist;
// glob patterns may legitimately match nothing.
func expand(root, path string) ([]string, error) {
	full := filepath.Join(root, path)

	if !strings.ContainsAny(path, "*?[{") {
		if _, err := os.Stat(full); err != nil {
			return nil, fmt.Errorf("source %s: %w", full, err)
		}
		return []string{full}, nil
	}

	var matches []string
	fsys := os.DirFS(root)
	err := doublestar.GlobWalk(fsys, filepath.ToSlash(path), func(p string, d fs.DirEntry) error {
		if !d.IsDir() {
			matches = append(matches, filepath.Join(root, p))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("expanding glob %s: %w", path, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// matchesAny checks relPath against the given doublestar globs, matching
// both the full relative path and the bare filename.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.PathMatch(pattern, normalized); err == nil && matched {
			return true
		}
		base := filepath.Base(normalized)
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
