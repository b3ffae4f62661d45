package driven

import (
	"context"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

// PassageStore is the durable intermediate corpus between the chunk stage
// and the upload stage: an append-only, line-oriented file of passages.
//
// Writes are append-only; records are immutable once written. Reads are a
// single forward pass with bounded memory; the store is never loaded
// wholesale.
type PassageStore interface {
	PassageWriter
	PassageReader
}

// PassageWriter is the chunk stage's view of the store.
type PassageWriter interface {
	// Append serialises passages to the store, one record per line.
	Append(passages []domain.Passage) error

	// Titles re-scans the existing store and returns the set of article
	// titles already present. Used as the chunk stage's resume state.
	Titles() (map[string]struct{}, error)

	// Sync flushes buffered writes to stable storage.
	Sync() error

	// Close flushes and closes the store.
	Close() error
}

// PassageReader is the upload stage's view of the store.
type PassageReader interface {
	// Count returns the number of non-blank records without loading them.
	Count() (int, error)

	// Stream reads passages in file order, skipping the first skip
	// records without decoding them. Malformed lines are reported on the
	// error channel, counted by the caller, and never terminate the
	// stream. Both channels are closed at end of file.
	Stream(ctx context.Context, skip int) (<-chan domain.Passage, <-chan error)
}
