package domain

import "github.com/google/uuid"

// Point is a vector-index record: one embedding vector plus payload under a
// single identifier.
type Point struct {
	// ID is a UUID derived from the passage ID (see PointID).
	ID string

	// Vector is the embedding. Nil when the index embeds server-side,
	// in which case Text is sent instead.
	Vector []float32

	// Text is the raw passage text for server-side embedding. Empty when
	// Vector is set.
	Text string

	// Payload carries the retrieval metadata stored alongside the vector.
	Payload Payload
}

// Payload is the metadata stored with every point.
type Payload struct {
	Text       string `json:"text"`
	Title      string `json:"title"`
	ChunkIndex int    `json:"chunk_index"`
	PassageID  string `json:"passage_id"`
}

// PointID projects a passage ID into the URL UUID namespace (UUIDv5).
// Re-embedding the same passage twice therefore yields the same point
// identity, which is what makes re-upserts overwrite instead of duplicate.
func PointID(passageID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(passageID)).String()
}

// Distance is the similarity metric a collection is created with.
type Distance string

const (
	// DistanceCosine is the default metric for sentence embeddings.
	DistanceCosine Distance = "Cosine"

	// DistanceDot is the dot-product metric.
	DistanceDot Distance = "Dot"

	// DistanceEuclid is the euclidean metric.
	DistanceEuclid Distance = "Euclid"
)

// CollectionInfo is the observed state of the target collection.
type CollectionInfo struct {
	// PointsCount is the number of points currently stored.
	PointsCount int

	// Dimension is the configured vector dimensionality.
	Dimension int

	// Distance is the configured similarity metric.
	Distance Distance

	// IndexingEnabled reports whether the background index build is
	// active (indexing threshold > 0).
	IndexingEnabled bool
}
