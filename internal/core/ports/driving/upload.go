package driving

import "context"

// UploadPipeline streams passages from the store through embedding and
// into the vector index, tolerant of being interrupted and restarted at
// any point.
type UploadPipeline interface {
	// Run executes one upload pass: ensure the collection, compute the
	// batch-aligned resume offset, stream-embed-upsert, drain, and
	// re-enable indexing.
	Run(ctx context.Context) (*UploadStats, error)

	// Status returns a snapshot of the running pipeline's counters.
	Status() *UploadStats
}

// UploadStats counts the work done by one upload run.
type UploadStats struct {
	// TotalPassages is the record count of the passage store.
	TotalPassages int

	// SkippedPassages is the batch-aligned resume offset applied.
	SkippedPassages int

	// UploadedPassages is the number of passages upserted this run.
	UploadedPassages int

	// MalformedLines counts store lines that failed to parse.
	MalformedLines int

	// FinalPointCount is the collection's point count after finalise.
	FinalPointCount int
}
