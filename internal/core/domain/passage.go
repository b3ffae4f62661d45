package domain

import (
	"fmt"
	"strings"
)

// Passage is a bounded-length, contiguous excerpt of an article's text.
// It is the unit of retrieval. Passages are immutable once written; their
// lifecycle ends when serialised to the passage store.
type Passage struct {
	// ID is derived deterministically from Title and ChunkIndex.
	ID string `json:"id"`

	// Title is the title of the article this passage was cut from.
	Title string `json:"title"`

	// Text is the passage content with fragments joined by single spaces.
	Text string `json:"text"`

	// ChunkIndex is the zero-based position within the article,
	// assigned in emission order.
	ChunkIndex int `json:"chunk_index"`
}

// PassageID derives the stable passage identifier for a title and chunk
// index: the title with spaces replaced by underscores, concatenated with
// the index. Stable across re-runs as long as titles are unique, which the
// dump guarantees.
func PassageID(title string, index int) string {
	return fmt.Sprintf("%s_%d", strings.ReplaceAll(title, " ", "_"), index)
}
