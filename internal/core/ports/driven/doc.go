// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ArticleSource: Streams (title, wikitext) pairs from the dump archive
//   - TextNormaliser: Converts wiki markup to plain text, best-effort
//   - Chunker: Splits plain text into bounded-length passages
//   - PassageStore: Durable line-oriented intermediate corpus
//   - VectorIndex: Collection lifecycle and point upserts (Qdrant)
//
// # Optional Interfaces
//
//   - Embedder: Generates vector embeddings locally. When nil, the upload
//     pipeline runs in cloud-inference mode and the index embeds server-side.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
