// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: Document and chunk persistence, aggregate statistics
//   - CollectionStore: Collection and membership persistence
//   - QueryLogStore: Append-only query telemetry
//   - FeedbackStore: Relevance judgments
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Foreign keys cascade so that deleting a document atomically removes its
// chunks, memberships and feedback.
//
// # Data Location
//
// By default, the database is stored at ~/.corpus/data/corpus.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode: the single writer serialises per-document mutations
// while readers keep serving a consistent snapshot.
package sqlite
