package driven

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage; an in-memory implementation
// exists for tests.
type DocumentStore interface {
	// PutDocument inserts a new document, or mutates the existing row
	// when doc.DocID is already present (re-ingest). The store computes
	// ContentHash and assigns doc.ID, CreatedAt and UpdatedAt. A hash
	// collision with a different document fails domain.ErrDuplicateContent
	// unless overwrite is set, in which case the colliding row is replaced
	// and its internal id and chunk ids are returned so the caller can
	// evict their vectors from the index.
	PutDocument(ctx context.Context, doc *domain.Document, overwrite bool) (replacedDocID int64, replacedChunkIDs []int64, err error)

	// UpdateDocument applies a partial update atomically and refreshes
	// UpdatedAt. Fails domain.ErrNotFound if the document is absent.
	UpdateDocument(ctx context.Context, docID string, update domain.DocumentUpdate) (*domain.Document, error)

	// GetDocument retrieves a document by its natural key.
	GetDocument(ctx context.Context, docID string) (*domain.Document, error)

	// DeleteDocument removes a document together with its chunks,
	// memberships and feedback in a single transaction. The returned
	// ids are the internal keys of the removed document and chunks, so
	// the caller can evict their vectors from the index.
	DeleteDocument(ctx context.Context, docID string) (docInternalID int64, chunkInternalIDs []int64, err error)

	// ListDocuments returns documents matching the filter.
	ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)

	// ReplaceChunks atomically replaces all chunks of a document.
	// Chunk internal ids are assigned by the store.
	ReplaceChunks(ctx context.Context, docInternalID int64, chunks []domain.Chunk) ([]domain.Chunk, error)

	// GetChunks returns a document's chunks ordered by Order.
	GetChunks(ctx context.Context, docInternalID int64) ([]domain.Chunk, error)

	// SetChunkEmbedding attaches an embedding to a stored chunk.
	SetChunkEmbedding(ctx context.Context, chunkInternalID int64, embedding []float32) error

	// Stats returns aggregate counts over the whole store.
	Stats(ctx context.Context) (*domain.DocumentStats, error)
}
