package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
	"github.com/KShivendu/agentic-search/internal/core/ports/driving"
	"github.com/KShivendu/agentic-search/internal/logger"
)

// Ensure ChunkService implements the interface.
var _ driving.ChunkPipeline = (*ChunkService)(nil)

// progressEvery controls how often the running counters are logged.
const progressEvery = 1000

// ChunkService drives articles from the dump through normalisation and
// chunking into the passage store.
type ChunkService struct {
	source     driven.ArticleSource
	normaliser driven.TextNormaliser
	chunker    driven.Chunker
	store      driven.PassageWriter

	mu    sync.RWMutex
	stats driving.ChunkStats
}

// NewChunkService creates a new chunk pipeline.
func NewChunkService(
	source driven.ArticleSource,
	normaliser driven.TextNormaliser,
	chunker driven.Chunker,
	store driven.PassageWriter,
) *ChunkService {
	return &ChunkService{
		source:     source,
		normaliser: normaliser,
		chunker:    chunker,
		store:      store,
	}
}

// Run processes the whole dump, appending passages to the store.
//
// Resume is title-based: a pre-pass over the partial output collects the
// titles already chunked, and those articles are skipped wholesale. An
// interrupted run is therefore simply re-invoked.
func (s *ChunkService) Run(ctx context.Context) (*driving.ChunkStats, error) {
	if err := s.source.Validate(ctx); err != nil {
		return nil, err
	}

	done, err := s.store.Titles()
	if err != nil {
		return nil, fmt.Errorf("scan existing store: %w", err)
	}
	if len(done) > 0 {
		logger.Info("Resuming: %d articles already chunked", len(done))
	}

	s.resetStats()

	articles, errs := s.source.Stream(ctx)

	for articles != nil || errs != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			return nil, fmt.Errorf("article source: %w", err)

		case article, ok := <-articles:
			if !ok {
				articles = nil
				continue
			}
			if err := s.processArticle(article.Title, article.RawText, done); err != nil {
				return nil, err
			}
		}
	}

	if err := s.store.Sync(); err != nil {
		return nil, fmt.Errorf("sync store: %w", err)
	}

	stats := s.Status()
	logger.Info("Chunking complete: %d articles seen, %d skipped (resume), %d too short, %d unparseable, %d passages written",
		stats.ArticlesSeen, stats.ArticlesSkipped, stats.ArticlesTooShort,
		stats.ArticlesUnparseable, stats.PassagesWritten)
	return stats, nil
}

// Status returns a snapshot of the running pipeline's counters.
func (s *ChunkService) Status() *driving.ChunkStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.stats
	return &snapshot
}

// processArticle runs one article through normalise -> pre-check -> chunk
// -> append.
func (s *ChunkService) processArticle(title, raw string, done map[string]struct{}) error {
	s.bump(func(st *driving.ChunkStats) { st.ArticlesSeen++ })

	if _, chunked := done[title]; chunked {
		s.bump(func(st *driving.ChunkStats) { st.ArticlesSkipped++ })
		return nil
	}

	text := s.normaliser.Normalise(raw)
	if text == "" {
		s.bump(func(st *driving.ChunkStats) { st.ArticlesUnparseable++ })
		logger.Debug("Unparseable article dropped: %s", title)
		return nil
	}

	// Articles below the chunker's minimum cannot yield a single valid
	// passage, so they are dropped before chunking.
	if len(strings.Fields(text)) < s.chunker.MinWords() {
		s.bump(func(st *driving.ChunkStats) { st.ArticlesTooShort++ })
		return nil
	}

	passages := s.chunker.Chunk(text, title)
	if len(passages) == 0 {
		s.bump(func(st *driving.ChunkStats) { st.ArticlesTooShort++ })
		return nil
	}

	if err := s.store.Append(passages); err != nil {
		return fmt.Errorf("append passages for %q: %w", title, err)
	}

	s.bump(func(st *driving.ChunkStats) { st.PassagesWritten += len(passages) })

	if seen := s.Status().ArticlesSeen; seen%progressEvery == 0 {
		logger.Info("Processed %d articles, %d passages", seen, s.Status().PassagesWritten)
	}
	return nil
}

func (s *ChunkService) resetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = driving.ChunkStats{}
}

func (s *ChunkService) bump(f func(*driving.ChunkStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.stats)
}
