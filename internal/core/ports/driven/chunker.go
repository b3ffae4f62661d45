package driven

import "github.com/KShivendu/agentic-search/internal/core/domain"

// Chunker splits normalised article text into bounded-length passages.
//
// Output passages are non-overlapping, ordered, and carry contiguous
// zero-based chunk indices. Text shorter than the configured minimum word
// count produces no passages (article too short to index).
type Chunker interface {
	// Chunk splits text into passages, deriving passage IDs from title.
	Chunk(text, title string) []domain.Passage

	// MinWords returns the configured lower bound used by callers for the
	// article-level pre-check.
	MinWords() int
}
