package vectordb

import (
	"strconv"

	"github.com/showcase-labs/kbsearch/internal/kb"
)

// Entry is a persisted record in the vector index: a chunk plus its
// embedding. Entries are created or overwritten during a rebuild and
// never mutated in place.
type Entry struct {
	ID        string
	Source    kb.SourceType
	Title     string
	Content   string
	Embedding []float32
}

// EntryID derives the stable identifier for a chunk. The (source, title)
// pair acts as the natural upsert key, so re-indexing the same corpus
// never duplicates entries; the window ordinal distinguishes sibling
// windows of a length-sliced section.
func EntryID(source kb.SourceType, title string, ord int) string {
	id := string(source) + "/" + title
	if ord > 0 {
		id += "#" + strconv.Itoa(ord+1)
	}
	return id
}

// NewEntry builds an Entry from a chunk and its embedding.
func NewEntry(c kb.Chunk, embedding []float32) Entry {
	return Entry{
		ID:        EntryID(c.Source, c.Title, c.Ord),
		Source:    c.Source,
		Title:     c.Title,
		Content:   c.Content,
		Embedding: embedding,
	}
}

// Result pairs an entry with its similarity to a query embedding.
type Result struct {
	EntryID    string
	Source     kb.SourceType
	Title      string
	Content    string
	Similarity float32
}
