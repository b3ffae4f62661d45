package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KShivendu/agentic-search/internal/core/domain"
	"github.com/KShivendu/agentic-search/internal/core/ports/driven"
	"github.com/KShivendu/agentic-search/internal/core/ports/driving"
	"github.com/KShivendu/agentic-search/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadPipeline = (*UploadService)(nil)

// UploadConfig holds every tunable of one upload run.
type UploadConfig struct {
	// Collection is the target collection name.
	Collection string

	// Dimension is the vector size used when creating the collection.
	Dimension int

	// Distance is the similarity metric used when creating the collection.
	Distance domain.Distance

	// EmbedBatchSize is how many passages are embedded per call.
	EmbedBatchSize int

	// UploadBatchSize is how many points are upserted per call. It is
	// also the resume checkpoint granularity: restarts re-do at most one
	// upload batch.
	UploadBatchSize int

	// IndexingThreshold is applied when the run finalises.
	IndexingThreshold int

	// CloudInference sends raw text so the index embeds server-side.
	// No local embedder is used in this mode.
	CloudInference bool

	// Fresh drops an existing collection before starting.
	Fresh bool
}

// UploadService streams passages from the store through embedding and
// into the vector index, surviving process restarts.
//
// Recovery relies on two properties: point identity is deterministic (the
// same passage always maps to the same point ID), and resume offsets are
// aligned to upload batches. A crash mid-batch therefore costs at most
// one batch of re-embedding, and the re-upsert overwrites in place.
type UploadService struct {
	store    driven.PassageReader
	index    driven.VectorIndex
	embedder driven.Embedder // nil in cloud-inference mode
	cfg      UploadConfig

	mu    sync.RWMutex
	stats driving.UploadStats
}

// NewUploadService creates a new upload pipeline. embedder may be nil
// when cfg.CloudInference is set.
func NewUploadService(
	store driven.PassageReader,
	index driven.VectorIndex,
	embedder driven.Embedder,
	cfg UploadConfig,
) *UploadService {
	return &UploadService{
		store:    store,
		index:    index,
		embedder: embedder,
		cfg:      cfg,
	}
}

// Run executes one upload pass.
func (s *UploadService) Run(ctx context.Context) (*driving.UploadStats, error) {
	if !s.cfg.CloudInference {
		if s.embedder == nil {
			return nil, domain.ErrEmbeddingUnavailable
		}
		if err := s.embedder.Ping(ctx); err != nil {
			return nil, fmt.Errorf("embedding endpoint unreachable (is the inference server running?): %w", err)
		}
		logger.Debug("Embedding model %s (%d dimensions)", s.embedder.ModelName(), s.embedder.Dimensions())
	}

	total, err := s.store.Count()
	if err != nil {
		return nil, err
	}
	logger.Info("Passage store holds %d records", total)

	if s.cfg.Fresh {
		if err := s.dropExisting(ctx); err != nil {
			return nil, err
		}
	}

	existing, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	// Inter-batch boundaries are the only recovery checkpoints, so the
	// resume offset is rounded down to a whole number of upload batches.
	// The partial batch gets re-embedded and re-upserted onto the same
	// point IDs.
	skip := (existing / s.cfg.UploadBatchSize) * s.cfg.UploadBatchSize
	if skip > 0 {
		logger.Info("Resuming: skipping first %d passages (already uploaded)", skip)
	}

	s.resetStats(total, skip)

	if err := s.streamAndUpload(ctx, skip); err != nil {
		return nil, err
	}

	return s.finalise(ctx)
}

// Status returns a snapshot of the running pipeline's counters.
func (s *UploadService) Status() *driving.UploadStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.stats
	return &snapshot
}

// dropExisting deletes the collection if it exists.
func (s *UploadService) dropExisting(ctx context.Context) error {
	exists, err := s.index.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if err := s.index.DeleteCollection(ctx, s.cfg.Collection); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	logger.Info("Deleted existing collection %q", s.cfg.Collection)
	return nil
}

// ensureCollection creates the collection with indexing disabled, or
// re-disables indexing on an existing one (a previous run may have
// crashed after re-enabling it, or before disabling it). Returns the
// current point count.
func (s *UploadService) ensureCollection(ctx context.Context) (int, error) {
	exists, err := s.index.CollectionExists(ctx, s.cfg.Collection)
	if err != nil {
		return 0, err
	}

	if exists {
		info, err := s.index.GetCollection(ctx, s.cfg.Collection)
		if err != nil {
			return 0, err
		}
		logger.Info("Collection %q exists (%d points)", s.cfg.Collection, info.PointsCount)
		if err := s.index.SetIndexingThreshold(ctx, s.cfg.Collection, 0); err != nil {
			return 0, fmt.Errorf("disable indexing: %w", err)
		}
		return info.PointsCount, nil
	}

	// Binary quantization only applies to locally embedded collections;
	// with cloud inference the service manages vector storage itself.
	quantize := !s.cfg.CloudInference
	if err := s.index.CreateCollection(ctx, s.cfg.Collection, s.cfg.Dimension, s.cfg.Distance, quantize); err != nil {
		return 0, fmt.Errorf("create collection: %w", err)
	}
	logger.Info("Created collection %q (dim=%d), indexing disabled", s.cfg.Collection, s.cfg.Dimension)
	return 0, nil
}

// streamAndUpload runs the stream-embed-upload loop and the final drain.
func (s *UploadService) streamAndUpload(ctx context.Context, skip int) error {
	passages, errs := s.store.Stream(ctx, skip)

	var embedBatch []domain.Passage
	var buffer []domain.Point

	// flushEmbed embeds the pending batch and moves it into the upload
	// buffer as points.
	flushEmbed := func() error {
		if len(embedBatch) == 0 {
			return nil
		}
		texts := make([]string, len(embedBatch))
		for i, p := range embedBatch {
			texts[i] = p.Text
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed batch: %w", err)
		}
		for i, p := range embedBatch {
			buffer = append(buffer, vectorPoint(p, vectors[i]))
		}
		embedBatch = nil
		return nil
	}

	// flushUpload upserts the buffer. Non-final flushes do not wait for
	// acknowledgement, overlapping network latency with the next batch;
	// the final flush must wait so completion is not reported before the
	// data is durably visible.
	flushUpload := func(wait bool) error {
		if len(buffer) == 0 {
			return nil
		}
		if err := s.index.Upsert(ctx, s.cfg.Collection, buffer, wait); err != nil {
			return fmt.Errorf("upsert batch: %w", err)
		}
		s.bump(func(st *driving.UploadStats) { st.UploadedPassages += len(buffer) })
		buffer = nil
		return nil
	}

	for passages != nil || errs != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if errors.Is(err, domain.ErrInvalidInput) {
				// Permanently corrupt line: counted, never retried.
				s.bump(func(st *driving.UploadStats) { st.MalformedLines++ })
				logger.Warn("Skipping malformed store line: %v", err)
				continue
			}
			return fmt.Errorf("passage store: %w", err)

		case p, ok := <-passages:
			if !ok {
				passages = nil
				continue
			}

			if s.cfg.CloudInference {
				buffer = append(buffer, textPoint(p))
				if len(buffer) >= s.cfg.UploadBatchSize {
					if err := flushUpload(false); err != nil {
						return err
					}
				}
				continue
			}

			embedBatch = append(embedBatch, p)
			if len(embedBatch) >= s.cfg.EmbedBatchSize {
				if err := flushEmbed(); err != nil {
					return err
				}
				if len(buffer) >= s.cfg.UploadBatchSize {
					if err := flushUpload(false); err != nil {
						return err
					}
				}
			}
		}
	}

	// Drain: embed the partial batch, then block on the last upsert.
	if !s.cfg.CloudInference {
		if err := flushEmbed(); err != nil {
			return err
		}
	}
	return flushUpload(true)
}

// finalise re-enables background indexing and reports the final count.
func (s *UploadService) finalise(ctx context.Context) (*driving.UploadStats, error) {
	logger.Info("Upload complete. Enabling indexing (threshold=%d)", s.cfg.IndexingThreshold)
	if err := s.index.SetIndexingThreshold(ctx, s.cfg.Collection, s.cfg.IndexingThreshold); err != nil {
		return nil, fmt.Errorf("enable indexing: %w", err)
	}

	info, err := s.index.GetCollection(ctx, s.cfg.Collection)
	if err != nil {
		return nil, err
	}
	s.bump(func(st *driving.UploadStats) { st.FinalPointCount = info.PointsCount })

	stats := s.Status()
	logger.Info("Done: %d points in %q (%d uploaded this run, %d malformed lines skipped)",
		stats.FinalPointCount, s.cfg.Collection, stats.UploadedPassages, stats.MalformedLines)
	return stats, nil
}

// vectorPoint builds a locally embedded point for a passage.
func vectorPoint(p domain.Passage, vector []float32) domain.Point {
	return domain.Point{
		ID:      domain.PointID(p.ID),
		Vector:  vector,
		Payload: payload(p),
	}
}

// textPoint builds a cloud-inference point carrying raw text.
func textPoint(p domain.Passage) domain.Point {
	return domain.Point{
		ID:      domain.PointID(p.ID),
		Text:    p.Text,
		Payload: payload(p),
	}
}

func payload(p domain.Passage) domain.Payload {
	return domain.Payload{
		Text:       p.Text,
		Title:      p.Title,
		ChunkIndex: p.ChunkIndex,
		PassageID:  p.ID,
	}
}

func (s *UploadService) resetStats(total, skip int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = driving.UploadStats{
		TotalPassages:   total,
		SkippedPassages: skip,
	}
}

func (s *UploadService) bump(f func(*driving.UploadStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.stats)
}
