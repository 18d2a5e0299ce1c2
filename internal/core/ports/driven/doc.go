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
//   - DocumentStore: Document and chunk persistence
//   - CollectionStore: Collection and membership persistence
//   - QueryLogStore: Append-only query telemetry
//   - FeedbackStore: Relevance judgments
//   - VectorIndex: Similarity search over embeddings
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or index package
package driven
