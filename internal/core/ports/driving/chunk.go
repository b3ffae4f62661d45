package driving

import "context"

// ChunkPipeline drives articles from the dump through normalisation and
// chunking into the passage store.
type ChunkPipeline interface {
	// Run processes the whole dump, appending passages to the store.
	// Articles whose title is already present in a partial store are
	// skipped, so an interrupted run can simply be re-invoked.
	Run(ctx context.Context) (*ChunkStats, error)

	// Status returns a snapshot of the running pipeline's counters.
	Status() *ChunkStats
}

// ChunkStats counts the work done by one chunk run.
type ChunkStats struct {
	// ArticlesSeen is the number of articles pulled from the dump.
	ArticlesSeen int

	// ArticlesSkipped counts articles skipped by the resume pre-pass.
	ArticlesSkipped int

	// ArticlesTooShort counts articles below the minimum word count.
	ArticlesTooShort int

	// ArticlesUnparseable counts articles whose markup normalised to "".
	ArticlesUnparseable int

	// PassagesWritten is the number of passages appended to the store.
	PassagesWritten int
}
