// Package domain defines the core business entities for the ingest pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Article: A raw encyclopedia page pulled from the dump
//   - Passage: A bounded-length excerpt of an article, the unit of retrieval
//   - Point: A vector-index record pairing an embedding with its payload
//   - CollectionInfo: Observed state of the target vector collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid (point identity)
//   - Cannot Import: Any internal/ package
package domain
