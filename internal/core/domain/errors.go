package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates an entity violates an invariant:
	// empty content, out-of-range relevance score, missing embedding.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArgument indicates a malformed request parameter,
	// such as a non-positive result limit or an out-of-range threshold.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateContent indicates a document whose normalised content
	// hashes to the same value as an already stored document. Callers
	// decide whether to force an overwrite; it is never absorbed silently.
	ErrDuplicateContent = errors.New("duplicate content")

	// ErrDimensionMismatch indicates an embedding whose length differs
	// from the store's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrTimeout indicates a search exceeded its deadline.
	// Retryable; the search service retries it with backoff.
	ErrTimeout = errors.New("search timed out")

	// ErrIndexUnavailable indicates the vector index is in an
	// unrecoverable state after a failed rebuild. Fatal: surfaced to the
	// caller rather than degrading to wrong or empty results.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
