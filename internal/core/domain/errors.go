package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreMissing indicates the passage store file is absent.
	// The chunk stage must run before the upload stage.
	ErrStoreMissing = errors.New("passage store missing")

	// ErrDumpMissing indicates the dump archive is absent.
	// The download stage must run before the chunk stage.
	ErrDumpMissing = errors.New("dump archive missing")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Local embedding mode cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the vector index is not reachable.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrRunLocked indicates another ingest run holds the run lock.
	// Concurrent runs against the same collection are unsafe.
	ErrRunLocked = errors.New("another ingest run is in progress")
)
