package driven

import (
	"context"

	"github.com/KShivendu/agentic-search/internal/core/domain"
)

// VectorIndex manages the target collection in a similarity-searchable
// store of (id -> vector, payload) records. Backed by the Qdrant HTTP API.
type VectorIndex interface {
	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// GetCollection returns the collection's current state.
	GetCollection(ctx context.Context, name string) (*domain.CollectionInfo, error)

	// CreateCollection creates a collection with the given dimensionality
	// and metric, with background indexing disabled for bulk load. When
	// quantize is true the collection stores binary-quantized vectors.
	CreateCollection(ctx context.Context, name string, dimension int, distance domain.Distance, quantize bool) error

	// DeleteCollection drops the collection and all its points.
	DeleteCollection(ctx context.Context, name string) error

	// SetIndexingThreshold updates the collection's optimizer threshold.
	// Zero disables background indexing; a positive value re-enables it.
	SetIndexingThreshold(ctx context.Context, name string, threshold int) error

	// Upsert writes a batch of points. When wait is false the call
	// returns once the operation is accepted, overlapping network latency
	// with local work; the final flush of a run must pass wait=true so
	// completion is not reported before the data is durably visible.
	Upsert(ctx context.Context, name string, points []domain.Point, wait bool) error

	// Close releases resources.
	Close() error
}
