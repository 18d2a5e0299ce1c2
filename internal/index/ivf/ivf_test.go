package ivf

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/index/bruteforce"
)

func newTestIndex(t *testing.T, cfg Config) *Index {
	t.Helper()
	idx, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Dimension: 0})
	assert.Error(t, err)

	idx, err := New(Config{Dimension: 3, NLists: 4, NProbe: 100})
	require.NoError(t, err)
	defer idx.Close()
	assert.Equal(t, 4, idx.cfg.NProbe, "nprobe clamped to nlists")
}

func TestIndex_FlatScanBeforeTraining(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 3, MinTrainSize: 1000})

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0, 0}))
	require.NoError(t, idx.Add(ctx, 2, []float32{0, 1, 0}))
	require.NoError(t, idx.Add(ctx, 3, []float32{0.9, 0.1, 0}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(1), hits[0].ID)
	assert.Equal(t, int64(3), hits[1].ID)
}

func TestIndex_TrainedSearch(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 4, NLists: 4, NProbe: 4, MinTrainSize: 1})

	rng := rand.New(rand.NewSource(7))
	for id := int64(1); id <= 200; id++ {
		vec := make([]float32, 4)
		for d := range vec {
			vec[d] = rng.Float32()*2 - 1
		}
		require.NoError(t, idx.Add(ctx, id, vec))
	}
	require.NoError(t, idx.Rebuild(ctx))

	hits, err := idx.Search(ctx, []float32{1, 0, 0, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 10)
	for n := 1; n < len(hits); n++ {
		assert.GreaterOrEqual(t, hits[n-1].Similarity, hits[n].Similarity,
			"hits must be sorted by descending similarity")
	}
}

// With nprobe == nlists every posting list is scanned, so IVF must
// agree with brute force on the top result.
func TestIndex_AgreesWithBruteForceOnTop1(t *testing.T) {
	ctx := context.Background()
	const dim = 8
	const corpus = 1000

	ivfIdx := newTestIndex(t, Config{Dimension: dim, NLists: 16, NProbe: 16, MinTrainSize: 1})
	bfIdx, err := bruteforce.New(dim)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for id := int64(1); id <= corpus; id++ {
		vec := make([]float32, dim)
		for d := range vec {
			vec[d] = rng.Float32()*2 - 1
		}
		require.NoError(t, ivfIdx.Add(ctx, id, vec))
		require.NoError(t, bfIdx.Add(ctx, id, vec))
	}
	require.NoError(t, ivfIdx.Rebuild(ctx))

	for trial := 0; trial < 20; trial++ {
		query := make([]float32, dim)
		for d := range query {
			query[d] = rng.Float32()*2 - 1
		}

		ivfHits, err := ivfIdx.Search(ctx, query, 1, nil)
		require.NoError(t, err)
		bfHits, err := bfIdx.Search(ctx, query, 1, nil)
		require.NoError(t, err)

		require.Len(t, ivfHits, 1)
		require.Len(t, bfHits, 1)
		assert.Equal(t, bfHits[0].ID, ivfHits[0].ID, "trial %d", trial)
		assert.InDelta(t, bfHits[0].Similarity, ivfHits[0].Similarity, 1e-9)
	}
}

func TestIndex_DeleteAfterTraining(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 2, NLists: 2, NProbe: 2, MinTrainSize: 1})

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, 2, []float32{0, 1}))
	require.NoError(t, idx.Add(ctx, 3, []float32{1, 0.1}))
	require.NoError(t, idx.Rebuild(ctx))

	require.NoError(t, idx.Delete(ctx, 1))
	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(3), hits[0].ID)
}

func TestIndex_InsertAfterTrainingIsSearchable(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 2, NLists: 2, NProbe: 2, MinTrainSize: 1})

	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))
	require.NoError(t, idx.Add(ctx, 2, []float32{0, 1}))
	require.NoError(t, idx.Rebuild(ctx))

	// No rebuild between insert and search.
	require.NoError(t, idx.Add(ctx, 3, []float32{1, 0.01}))

	hits, err := idx.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, int64(1), hits[0].ID)

	hits, err = idx.Search(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, int64(3), hits[1].ID)
}

func TestIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 3})

	assert.ErrorIs(t, idx.Add(ctx, 1, []float32{1}), domain.ErrDimensionMismatch)

	_, err := idx.Search(ctx, []float32{1}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestIndex_FailedRebuildMarksUnavailable(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 2, MinTrainSize: 1})
	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))

	idx.trainFn = func(context.Context, [][]float32, int, int64) ([][]float32, error) {
		return nil, errors.New("boom")
	}

	err := idx.Rebuild(ctx)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	_, err = idx.Search(ctx, []float32{1, 0}, 1, nil)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)

	// A successful rebuild recovers the index.
	idx.trainFn = kmeans
	require.NoError(t, idx.Rebuild(ctx))
	hits, err := idx.Search(ctx, []float32{1, 0}, 1, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_SearchDuringRebuild(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 4, NLists: 8, NProbe: 8, MinTrainSize: 1})

	rng := rand.New(rand.NewSource(3))
	for id := int64(1); id <= 500; id++ {
		vec := make([]float32, 4)
		for d := range vec {
			vec[d] = rng.Float32()*2 - 1
		}
		require.NoError(t, idx.Add(ctx, id, vec))
	}
	require.NoError(t, idx.Rebuild(ctx))

	// Hammer searches while rebuilds run; queries must keep succeeding
	// against a complete generation throughout.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan error, 64)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; n < 5; n++ {
			if err := idx.Rebuild(ctx); err != nil {
				errs <- err
				return
			}
		}
		close(stop)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
				}
				query := []float32{r.Float32(), r.Float32(), r.Float32(), r.Float32()}
				hits, err := idx.Search(ctx, query, 5, nil)
				if err != nil {
					errs <- err
					return
				}
				if len(hits) != 5 {
					errs <- errors.New("short result during rebuild")
					return
				}
			}
		}(int64(w))
	}

	wg.Wait()
	select {
	case err := <-errs:
		t.Fatalf("concurrent search/rebuild failed: %v", err)
	default:
	}
}

func TestIndex_RebuildEmptyCorpus(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{Dimension: 2})
	require.NoError(t, idx.Rebuild(ctx))

	hits, err := idx.Search(ctx, []float32{1, 0}, 3, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_AddAfterCloseFails(t *testing.T) {
	idx, err := New(Config{Dimension: 2})
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	err = idx.Add(context.Background(), 1, []float32{1, 0})
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestIndex_CloseWaitsForBackgroundRetrain(t *testing.T) {
	ctx := context.Background()
	idx, err := New(Config{Dimension: 2, MinTrainSize: 1})
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	idx.trainFn = func(context.Context, [][]float32, int, int64) ([][]float32, error) {
		close(started)
		<-release
		return nil, errors.New("aborted")
	}

	// First insert reaches MinTrainSize and kicks off a background train.
	require.NoError(t, idx.Add(ctx, 1, []float32{1, 0}))
	<-started

	done := make(chan struct{})
	go func() {
		_ = idx.Close()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Close returned while a rebuild was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the rebuild finished")
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(11))
	vecs := make([][]float32, 100)
	for n := range vecs {
		vecs[n] = normalise([]float32{rng.Float32(), rng.Float32(), rng.Float32()})
	}

	a, err := kmeans(ctx, vecs, 5, trainSeed)
	require.NoError(t, err)
	b, err := kmeans(ctx, vecs, 5, trainSeed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestKMeans_ClampsClusterCount(t *testing.T) {
	ctx := context.Background()
	vecs := [][]float32{normalise([]float32{1, 0}), normalise([]float32{0, 1})}

	centroids, err := kmeans(ctx, vecs, 10, trainSeed)
	require.NoError(t, err)
	assert.Len(t, centroids, 2)
}

func TestKMeans_Errors(t *testing.T) {
	ctx := context.Background()
	_, err := kmeans(ctx, nil, 3, trainSeed)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = kmeans(cancelled, [][]float32{{1, 0}}, 1, trainSeed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndex_RetrainRateLimited(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t, Config{
		Dimension:       2,
		NLists:          2,
		NProbe:          2,
		MinTrainSize:    4,
		RetrainInterval: time.Hour, // at most one background train
	})

	for id := int64(1); id <= 64; id++ {
		require.NoError(t, idx.Add(ctx, id, []float32{float32(id), 1}))
	}
	idx.wg.Wait()

	idx.mu.RLock()
	trained := idx.gen != nil
	idx.mu.RUnlock()
	assert.True(t, trained, "first training pass should have run")
}
