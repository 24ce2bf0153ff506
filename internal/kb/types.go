// Package kb models the knowledge-base corpus: raw source documents and the
// bounded chunks they are split into before embedding.
package kb

// SourceType categorizes a source document and selects its chunking strategy.
type SourceType string

const (
	SourceProduct      SourceType = "product"
	SourceFAQ          SourceType = "faq"
	SourceGuide        SourceType = "guide"
	SourceTechnicalDoc SourceType = "technical_doc"
)

// Valid reports whether t is a recognized source type.
func (t SourceType) Valid() bool {
	switch t {
	case SourceProduct, SourceFAQ, SourceGuide, SourceTechnicalDoc:
		return true
	}
	return false
}

// Document is a raw source unit prior to indexing. It is read once per
// index build and never mutated.
type Document struct {
	Source  SourceType
	RawText string
}

// Chunk is the atomic indexed unit produced by splitting a Document.
// Content is bounded (MaxChunkLen) for section-based sources; FAQ blocks
// are kept whole. Ord is the window index within a length-sliced section
// (0 for the first or only window) and keeps sibling windows from
// colliding on the (source, title) key. Never mutated after creation.
type Chunk struct {
	Source  SourceType
	Title   string
	Content string
	Ord     int
}
