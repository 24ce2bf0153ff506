package kb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/showcase-labs/kbsearch/internal/rag"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "faq.md", "**Q: anything?**\n**A:** something useful here.")
	writeFile(t, dir, "guides/setup.md", "# Setup\n\nInstall and configure the app.")
	writeFile(t, dir, "guides/usage.md", "# Usage\n\nDay to day usage notes.")

	docs, err := Load(LoaderConfig{
		RootDir: dir,
		Sources: []SourceSpec{
			{Path: "faq.md", Type: SourceFAQ},
			{Path: "guides/**/*.md", Type: SourceGuide},
		},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Source != SourceFAQ {
		t.Errorf("first document: got source %q, want faq", docs[0].Source)
	}
	// Glob matches come back sorted, config order first.
	if docs[1].Source != SourceGuide || docs[2].Source != SourceGuide {
		t.Errorf("guide documents missing: %+v", docs[1:])
	}
}

func TestLoadExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docs/keep.md", "# Keep\n\nThis one stays in the corpus.")
	writeFile(t, dir, "docs/draft.md", "# Draft\n\nThis one is excluded.")

	docs, err := Load(LoaderConfig{
		RootDir: dir,
		Sources: []SourceSpec{{Path: "docs/**/*.md", Type: SourceTechnicalDoc}},
		Exclude: []string{"draft.md"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document after exclusion, got %d", len(docs))
	}
}

func TestLoadSkipsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.md", "   \n\n")

	docs, err := Load(LoaderConfig{
		RootDir: dir,
		Sources: []SourceSpec{{Path: "empty.md", Type: SourceGuide}},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty files to be skipped, got %d documents", len(docs))
	}
}

func TestLoadRejectsUnknownType(t *testing.T) {
	_, err := Load(LoaderConfig{
		Sources: []SourceSpec{{Path: "whatever.md", Type: SourceType("blog")}},
	})
	if !errors.Is(err, rag.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(LoaderConfig{
		RootDir: dir,
		Sources: []SourceSpec{{Path: "missing.md", Type: SourceFAQ}},
	})
	if err == nil {
		t.Fatal("expected an error for a missing non-glob source")
	}
}
