package bruteforce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

func TestNew_RejectsNonPositiveDimension(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(-5)
	assert.Error(t, err)
}

func TestIndex_AddSearch(t *testing.T) {
	ctx := context.Background()
	idx, err := New(3)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, 2, []float32{0, 1, 0}))
	require.NoError(t, idx.Add(ctx, 3, []float32{0.9, 0.1, 0}))
	assert.Equal(t, 3, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Exact match first, near match second, orthogonal last.
	assert.Equal(t, int64(1), hits[0].ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
	assert.Equal(t, int64(3), hits[1].ID)
	assert.Equal(t, int64(2), hits[2].ID)
	assert.InDelta(t, 0.0, hits[2].Similarity, 1e-6)
}

func TestIndex_SearchTruncatesToK(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	for id := int64(1); id <= 10; id++ {
		require.NoError(t, idx.Add(ctx, id, []float32{1, float32(id) / 100}))
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 4, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 4)

	hits, err = idx.Search(ctx, []float32{1, 0}, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_TieBreakAscendingID(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	// Identical vectors under different ids: scores tie exactly.
	require.NoError(t, idx.Add(ctx, 42, []float32{1, 1}))
	require.NoError(t, idx.Add(ctx, 7, []float32{1, 1}))
	require.NoError(t, idx.Add(ctx, 99, []float32{2, 2})) // same direction

	hits, err := idx.Search(ctx, []float32{1, 1}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []int64{7, 42, 99}, []int64{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestIndex_Delete(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, 2, []float32{0, 1}))
	require.NoError(t, idx.Delete(ctx, 1))
	require.NoError(t, idx.Delete(ctx, 1)) // repeat delete is a no-op

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(2), hits[0].ID)
}

func TestIndex_AddReplacesExisting(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, 1, []float32{0, 1}))
	assert.Equal(t, 1, idx.Len())

	hits, err := idx.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx, err := New(3)
	require.NoError(t, err)

	err = idx.Add(ctx, 1, []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = idx.Search(ctx, []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_AllowPredicate(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, 2, []float32{1, 0.01}))
	require.NoError(t, idx.Add(ctx, 3, []float32{1, 0.02}))

	even := func(id int64) bool { return id%2 == 0 }
	hits, err := idx.Search(ctx, []float32{1, 0}, 10, even)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(2), hits[0].ID)
}

func TestIndex_NegativeSimilarity(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, 1, []float32{-1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, -1.0, hits[0].Similarity, 1e-6)
}

func TestIndex_ZeroVector(t *testing.T) {
	ctx := context.Background()
	idx, err := New(2)
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, 1, []float32{0, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Zero(t, hits[0].Similarity)
}
