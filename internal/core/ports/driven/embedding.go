package driven

import "context"

// Embedder generates vector embeddings from text.
// This is an optional service - when nil, the upload pipeline delegates
// embedding to the vector index service (cloud inference).
//
// Implementations may include:
//   - OpenAI-compatible APIs (text-embedding-3-small, or a local
//     inference server fronting sentence-transformers)
//   - Ollama (nomic-embed-text, all-minilm)
type Embedder interface {
	// EmbedBatch generates embeddings for a batch of texts in one call.
	// The returned slice is index-aligned with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1024).
	// This must match the collection's configured dimensionality.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup so a missing backend fails fast.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
