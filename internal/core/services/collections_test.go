package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/storage/memory"
	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/index/bruteforce"
)

type collectionFixture struct {
	svc    *CollectionService
	ingest *IngestService
	log    *memory.QueryLogStore
}

func newCollectionFixture(t *testing.T) *collectionFixture {
	t.Helper()
	docs := memory.NewDocumentStore()
	index, err := bruteforce.New(3)
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	log := memory.NewQueryLogStore()
	return &collectionFixture{
		svc:    NewCollectionService(docs, memory.NewCollectionStore(docs), memory.NewFeedbackStore(log, docs)),
		ingest: NewIngestService(docs, index, 3),
		log:    log,
	}
}

func (f *collectionFixture) mustIngest(t *testing.T, docID, content string) *domain.Document {
	t.Helper()
	doc := &domain.Document{DocID: docID, Content: content, Embedding: []float32{1, 0, 0}}
	require.NoError(t, f.ingest.Ingest(context.Background(), doc, driving.IngestOptions{}))
	return doc
}

func TestCollectionService_CreateAndList(t *testing.T) {
	f := newCollectionFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, "advisory", "client advisory docs", map[string]any{"team": "wealth"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = f.svc.Create(ctx, "advisory", "", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = f.svc.Create(ctx, "", "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	all, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "advisory", all[0].Name)
}

func TestCollectionService_Membership(t *testing.T) {
	f := newCollectionFixture(t)
	ctx := context.Background()

	f.mustIngest(t, "doc-1", "member")
	_, err := f.svc.Create(ctx, "advisory", "", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.AddDocument(ctx, "doc-1", "advisory"))
	require.NoError(t, f.svc.AddDocument(ctx, "doc-1", "advisory"), "re-add is a no-op")

	docs, err := f.svc.Documents(ctx, "advisory")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].DocID)

	require.NoError(t, f.svc.RemoveDocument(ctx, "doc-1", "advisory"))
	docs, err = f.svc.Documents(ctx, "advisory")
	require.NoError(t, err)
	assert.Empty(t, docs)

	err = f.svc.AddDocument(ctx, "missing", "advisory")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	err = f.svc.AddDocument(ctx, "doc-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollectionService_RecordFeedback(t *testing.T) {
	f := newCollectionFixture(t)
	ctx := context.Background()

	f.mustIngest(t, "doc-1", "judged")
	entry := &domain.QueryLogEntry{QueryText: "q", ResultCount: 1, LatencyMS: 3}
	require.NoError(t, f.log.Append(ctx, entry))

	require.NoError(t, f.svc.RecordFeedback(ctx, entry.ID, "doc-1", 4, "useful", "analyst-1"))

	// Score out of range leaves the store untouched.
	err := f.svc.RecordFeedback(ctx, entry.ID, "doc-1", 6, "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = f.svc.RecordFeedback(ctx, 999, "doc-1", 3, "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.svc.RecordFeedback(ctx, entry.ID, "missing", 3, "", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
