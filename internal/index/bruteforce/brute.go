// Package bruteforce provides an exact vector index via full scan.
package bruteforce

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index scans every stored vector per query. Exact by construction;
// the reference against which the approximate backends are tested.
type Index struct {
	mu   sync.RWMutex
	dim  int
	vecs map[int64][]float32 // unit vectors
}

// New creates a brute-force index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("bruteforce: dimension must be positive, got %d", dimension)
	}
	return &Index{
		dim:  dimension,
		vecs: make(map[int64][]float32),
	}, nil
}

// Add inserts or replaces the vector for the given id.
func (i *Index) Add(_ context.Context, id int64, embedding []float32) error {
	if len(embedding) != i.dim {
		return fmt.Errorf("bruteforce: vector length %d: %w", len(embedding), domain.ErrDimensionMismatch)
	}
	unit := normalise(embedding)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.vecs[id] = unit
	return nil
}

// Delete removes a vector from the index. Unknown ids are a no-op.
func (i *Index) Delete(_ context.Context, id int64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.vecs, id)
	return nil
}

// Search returns up to k hits ordered by descending similarity,
// ties broken by ascending id.
func (i *Index) Search(_ context.Context, query []float32, k int, allow func(int64) bool) ([]driven.VectorHit, error) {
	if len(query) != i.dim {
		return nil, fmt.Errorf("bruteforce: query length %d: %w", len(query), domain.ErrDimensionMismatch)
	}
	if k <= 0 {
		return nil, nil
	}
	q := normalise(query)

	i.mu.RLock()
	hits := make([]driven.VectorHit, 0, len(i.vecs))
	for id, vec := range i.vecs {
		if allow != nil && !allow(id) {
			continue
		}
		hits = append(hits, driven.VectorHit{ID: id, Similarity: dot(q, vec)})
	}
	i.mu.RUnlock()

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Similarity != hits[b].Similarity {
			return hits[a].Similarity > hits[b].Similarity
		}
		return hits[a].ID < hits[b].ID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.vecs)
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}

// normalise returns a unit-length copy of v. Zero vectors are returned
// as-is; their similarity to anything is 0.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
