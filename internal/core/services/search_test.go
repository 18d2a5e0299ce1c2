package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/storage/memory"
	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/index/bruteforce"
)

type searchFixture struct {
	search *SearchService
	ingest *IngestService
	log    *memory.QueryLogStore
}

func newSearchFixture(t *testing.T, dimension int) *searchFixture {
	t.Helper()
	store := memory.NewDocumentStore()
	index, err := bruteforce.New(dimension)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	log := memory.NewQueryLogStore()
	return &searchFixture{
		search: NewSearchService(store, index, log, dimension),
		ingest: NewIngestService(store, index, dimension),
		log:    log,
	}
}

func (f *searchFixture) mustIngest(t *testing.T, docID, content string, embedding []float32) {
	t.Helper()
	doc := &domain.Document{DocID: docID, Content: content, Embedding: embedding}
	require.NoError(t, f.ingest.Ingest(context.Background(), doc, driving.IngestOptions{}))
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	f := newSearchFixture(t, 3)
	ctx := context.Background()

	f.mustIngest(t, "a", "exact match", []float32{1, 0, 0})
	f.mustIngest(t, "b", "orthogonal", []float32{0, 1, 0})
	f.mustIngest(t, "c", "close match", []float32{0.9, 0.1, 0})

	req := domain.SearchRequest{
		Embedding:  []float32{1, 0, 0},
		Threshold:  0.5,
		MaxResults: 2,
	}
	results, err := f.search.Search(ctx, req)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].DocID)
	assert.Equal(t, "c", results[1].DocID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestSearch_ThresholdMonotonic(t *testing.T) {
	f := newSearchFixture(t, 3)
	ctx := context.Background()

	f.mustIngest(t, "a", "one", []float32{1, 0, 0})
	f.mustIngest(t, "b", "two", []float32{0.7, 0.7, 0})
	f.mustIngest(t, "c", "three", []float32{0, 1, 0})

	counts := make([]int, 0, 3)
	for _, threshold := range []float64{0.0, 0.5, 0.95} {
		results, err := f.search.Search(ctx, domain.SearchRequest{
			Embedding:  []float32{1, 0, 0},
			Threshold:  threshold,
			MaxResults: 10,
		})
		require.NoError(t, err)
		counts = append(counts, len(results))
	}
	assert.GreaterOrEqual(t, counts[0], counts[1])
	assert.GreaterOrEqual(t, counts[1], counts[2])
}

func TestSearch_ValidatesRequest(t *testing.T) {
	f := newSearchFixture(t, 3)
	ctx := context.Background()

	_, err := f.search.Search(ctx, domain.SearchRequest{Embedding: []float32{1, 0, 0}, MaxResults: 0, Threshold: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.search.Search(ctx, domain.SearchRequest{Embedding: []float32{1, 0, 0}, MaxResults: 5, Threshold: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.search.Search(ctx, domain.SearchRequest{Embedding: []float32{1, 0}, MaxResults: 5})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_StructuralPrefilter(t *testing.T) {
	f := newSearchFixture(t, 3)
	ctx := context.Background()

	research := &domain.Document{
		DocID: "r-1", Content: "research doc", Embedding: []float32{1, 0, 0},
		DocumentType: "research", Metadata: map[string]any{"sector": "tech"},
	}
	filing := &domain.Document{
		DocID: "f-1", Content: "filing doc", Embedding: []float32{0.99, 0.01, 0},
		DocumentType: "filing", Metadata: map[string]any{"sector": "energy"},
	}
	require.NoError(t, f.ingest.Ingest(ctx, research, driving.IngestOptions{}))
	require.NoError(t, f.ingest.Ingest(ctx, filing, driving.IngestOptions{}))

	// The type filter removes the otherwise top-scoring filing without
	// consuming the result budget.
	results, err := f.search.Search(ctx, domain.SearchRequest{
		Embedding:    []float32{1, 0, 0},
		Threshold:    0.1,
		MaxResults:   1,
		DocumentType: "research",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "r-1", results[0].DocID)

	results, err = f.search.Search(ctx, domain.SearchRequest{
		Embedding:      []float32{1, 0, 0},
		Threshold:      0.1,
		MaxResults:     10,
		MetadataFilter: map[string]any{"sector": "energy"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "f-1", results[0].DocID)
}

func TestSearch_EmptyStore(t *testing.T) {
	f := newSearchFixture(t, 3)

	results, err := f.search.Search(context.Background(), domain.NewSearchRequest([]float32{1, 0, 0}))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_AppendsQueryLog(t *testing.T) {
	f := newSearchFixture(t, 3)
	ctx := context.Background()

	f.mustIngest(t, "a", "logged", []float32{1, 0, 0})

	req := domain.NewSearchRequest([]float32{1, 0, 0})
	req.QueryText = "growth outlook"
	_, err := f.search.Search(ctx, req)
	require.NoError(t, err)

	recent, err := f.log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "growth outlook", recent[0].QueryText)
	assert.Equal(t, 1, recent[0].ResultCount)
}

// timeoutIndex fails with a deadline error a fixed number of times
// before delegating to the wrapped index.
type timeoutIndex struct {
	driven.VectorIndex
	failures atomic.Int32
}

func (i *timeoutIndex) Search(ctx context.Context, query []float32, k int, allow func(int64) bool) ([]driven.VectorHit, error) {
	if i.failures.Add(-1) >= 0 {
		return nil, context.DeadlineExceeded
	}
	return i.VectorIndex.Search(ctx, query, k, allow)
}

func TestSearch_RetriesOnTimeout(t *testing.T) {
	store := memory.NewDocumentStore()
	inner, err := bruteforce.New(3)
	require.NoError(t, err)
	defer inner.Close()
	index := &timeoutIndex{VectorIndex: inner}
	index.failures.Store(2)
	log := memory.NewQueryLogStore()

	ingest := NewIngestService(store, index, 3)
	search := NewSearchService(store, index, log, 3)
	ctx := context.Background()

	doc := &domain.Document{DocID: "a", Content: "retry target", Embedding: []float32{1, 0, 0}}
	require.NoError(t, ingest.Ingest(ctx, doc, driving.IngestOptions{}))

	results, err := search.Search(ctx, domain.NewSearchRequest([]float32{1, 0, 0}))
	require.NoError(t, err, "search succeeds after retries")
	require.Len(t, results, 1)

	// Only the successful attempt is logged.
	recent, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestSearch_TimeoutExhaustsRetries(t *testing.T) {
	store := memory.NewDocumentStore()
	inner, err := bruteforce.New(3)
	require.NoError(t, err)
	defer inner.Close()
	index := &timeoutIndex{VectorIndex: inner}
	index.failures.Store(100)
	log := memory.NewQueryLogStore()

	search := NewSearchService(store, index, log, 3)

	started := time.Now()
	_, err = search.Search(context.Background(), domain.NewSearchRequest([]float32{1, 0, 0}))
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Less(t, time.Since(started), 5*time.Second)

	recent, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent, "timed-out searches are never logged")
}

// slowIndex completes ranking only after the caller's deadline passed.
type slowIndex struct {
	driven.VectorIndex
}

func (i *slowIndex) Search(ctx context.Context, query []float32, k int, allow func(int64) bool) ([]driven.VectorHit, error) {
	<-ctx.Done()
	return i.VectorIndex.Search(context.Background(), query, k, allow)
}

func TestSearch_DeadlineAfterRankingNotLogged(t *testing.T) {
	store := memory.NewDocumentStore()
	inner, err := bruteforce.New(3)
	require.NoError(t, err)
	defer inner.Close()
	index := &slowIndex{VectorIndex: inner}
	log := memory.NewQueryLogStore()

	ingest := NewIngestService(store, inner, 3)
	search := NewSearchService(store, index, log, 3)
	ctx := context.Background()

	doc := &domain.Document{DocID: "a", Content: "late result", Embedding: []float32{1, 0, 0}}
	require.NoError(t, ingest.Ingest(ctx, doc, driving.IngestOptions{}))

	req := domain.NewSearchRequest([]float32{1, 0, 0})
	req.Timeout = 10 * time.Millisecond
	_, err = search.Search(ctx, req)
	assert.ErrorIs(t, err, domain.ErrTimeout)

	recent, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent, "an expired query leaves no log entry even when ranking finished")
}

func TestStatsService_EmptyStore(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewStatsService(store)

	stats, err := svc.DocumentStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocuments)
	assert.Zero(t, stats.TotalChunks)
	assert.Nil(t, stats.OldestDocument)
	assert.Nil(t, stats.NewestDocument)
}

func TestStatsService_Aggregates(t *testing.T) {
	store := memory.NewDocumentStore()
	index, err := bruteforce.New(3)
	require.NoError(t, err)
	defer index.Close()
	ingest := NewIngestService(store, index, 3)
	svc := NewStatsService(store)
	ctx := context.Background()

	require.NoError(t, ingest.Ingest(ctx, &domain.Document{
		DocID: "a", Content: "aaaa", Embedding: []float32{1, 0, 0}, Source: "feed-1", DocumentType: "research",
	}, driving.IngestOptions{}))
	require.NoError(t, ingest.Ingest(ctx, &domain.Document{
		DocID: "b", Content: "bbbbbbbb", Embedding: []float32{0, 1, 0}, Source: "feed-2", DocumentType: "filing",
	}, driving.IngestOptions{}))

	stats, err := svc.DocumentStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalDocuments)
	assert.InDelta(t, 6.0, stats.AvgContentLength, 0.001)
	assert.Equal(t, int64(2), stats.DistinctSources)
	assert.Equal(t, int64(2), stats.DistinctTypes)
	require.NotNil(t, stats.OldestDocument)
}
