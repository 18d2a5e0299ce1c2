package driven

import "context"

// VectorIndex provides similarity search over fixed-dimension vectors.
// Implementations normalise vectors to unit length internally, so the
// reported similarity is the raw cosine in [-1, 1].
//
// Ordering is deterministic: descending similarity, ascending id on ties.
type VectorIndex interface {
	// Add inserts or replaces the vector for the given internal id.
	Add(ctx context.Context, id int64, embedding []float32) error

	// Delete removes a vector from the index. Unknown ids are a no-op.
	Delete(ctx context.Context, id int64) error

	// Search finds up to k nearest vectors. When allow is non-nil, only
	// ids it accepts are considered, so structural pre-filters do not
	// waste the k budget.
	Search(ctx context.Context, query []float32, k int, allow func(int64) bool) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit is a single similarity result.
type VectorHit struct {
	// ID is the internal id the vector was added under.
	ID int64

	// Similarity is the cosine similarity score, in [-1, 1].
	Similarity float64
}
