// Package domain defines the core business entities for the corpus store.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A stored document with a precomputed embedding
//   - Chunk: An ordered sub-segment of a document
//   - Collection: A named grouping of documents
//   - QueryLogEntry / FeedbackEntry: Append-only retrieval telemetry
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
