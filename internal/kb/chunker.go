package kb

import (
	"regexp"
	"strings"
)

const (
	// MaxChunkLen is the hard cap, in characters, on the content of a
	// section-based chunk. FAQ blocks are exempt: a Q&A pair is never
	// split, regardless of length.
	MaxChunkLen = 1000

	// MinChunkLen is the noise floor. Chunks with shorter content are
	// dropped uniformly across all source types.
	MinChunkLen = 10

	// titleFallbackLen is how many characters of content become the title
	// when no heading or question marker is found.
	titleFallbackLen = 30
)

var (
	// Horizontal-rule separators between FAQ Q&A blocks.
	faqSeparator = regexp.MustCompile(`\n---+\n`)

	// Bolded question marker, e.g. **Q: How do I ...** (ASCII or
	// full-width colon).
	faqQuestion = regexp.MustCompile(`(?s)\*\*Q[:：](.*?)\*\*`)

	// Markdown heading at the start of a line.
	headingLine = regexp.MustCompile(`^#+\s*(.+)`)
)

// Split divides a document into chunks according to its source type.
// It is a pure function: the same document always yields the same chunks
// in the same order.
func Split(doc Document) []Chunk {
	if doc.Source == SourceFAQ {
		return splitFAQ(doc)
	}
	return splitSections(doc)
}

// splitFAQ produces one chunk per Q&A block. Blocks are delimited by
// horizontal rules; the question text becomes the title. A block is never
// subdivided, even when it exceeds MaxChunkLen, so answers stay intact.
func splitFAQ(doc Document) []Chunk {
	var chunks []Chunk
	for _, block := range faqSeparator.Split(doc.RawText, -1) {
		content := strings.TrimSpace(block)
		if runeLen(content) < MinChunkLen {
			continue
		}

		title := ""
		if m := faqQuestion.FindStringSubmatch(content); m != nil {
			title = strings.TrimSpace(m[1])
		}
		if title == "" {
			title = truncateRunes(content, titleFallbackLen)
		}

		chunks = append(chunks, Chunk{Source: doc.Source, Title: title, Content: content})
	}
	return chunks
}

// splitSections divides markdown on heading boundaries. Sections longer
// than MaxChunkLen are sliced into consecutive fixed-size windows, all
// sharing the section title so provenance stays traceable. A document
// with no headings yields a single section covering the whole text.
func splitSections(doc Document) []Chunk {
	var chunks []Chunk
	for _, section := range sectionize(doc.RawText) {
		content := strings.TrimSpace(section)
		if content == "" {
			continue
		}

		title := ""
		if m := headingLine.FindStringSubmatch(content); m != nil {
			title = strings.TrimSpace(m[1])
		}
		if title == "" {
			title = truncateRunes(content, titleFallbackLen)
		}

		for i, window := range sliceRunes(content, MaxChunkLen) {
			if runeLen(window) < MinChunkLen {
				continue
			}
			chunks = append(chunks, Chunk{Source: doc.Source, Title: title, Content: window, Ord: i})
		}
	}
	return chunks
}

// sectionize splits text so that every markdown heading starts a new
// section. Text before the first heading forms its own section.
func sectionize(text string) []string {
	lines := strings.Split(text, "\n")
	var sections []string
	var current []string

	for _, line := range lines {
		if headingLine.MatchString(line) && len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = current[:0:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

// sliceRunes cuts s into consecutive windows of at most max characters.
// Slicing is rune-based so multibyte text is never cut mid-character.
func sliceRunes(s string, max int) []string {
	runes := []rune(s)
	if len(runes) <= max {
		return []string{s}
	}
	var out []string
	for i := 0; i < len(runes); i += max {
		end := i + max
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func runeLen(s string) int {
	return len([]rune(s))
}
