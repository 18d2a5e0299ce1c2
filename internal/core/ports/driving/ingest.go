package driving

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// IngestOptions configures document ingestion.
type IngestOptions struct {
	// Overwrite replaces a stored document whose content hash collides
	// with the incoming one, instead of failing with ErrDuplicateContent.
	Overwrite bool

	// MaxChunkSize enables splitting: documents longer than this are
	// decomposed into chunks of at most this many characters. Zero
	// disables splitting.
	MaxChunkSize int

	// ChunkOverlap is the number of characters repeated across adjacent
	// chunk boundaries when splitting.
	ChunkOverlap int
}

// IngestService manages the document lifecycle: ingest, mutate, delete.
type IngestService interface {
	// Ingest validates and stores a document, updates the vector index,
	// and optionally splits it into chunks.
	Ingest(ctx context.Context, doc *domain.Document, opts IngestOptions) error

	// Update applies a partial update and refreshes the index when the
	// embedding changed.
	Update(ctx context.Context, docID string, update domain.DocumentUpdate) (*domain.Document, error)

	// Get retrieves a document by its natural key.
	Get(ctx context.Context, docID string) (*domain.Document, error)

	// Delete removes a document, cascading to chunks, memberships and
	// feedback, and evicts its vectors from the index.
	Delete(ctx context.Context, docID string) error

	// List returns documents matching the filter.
	List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error)

	// Split decomposes a stored document into ordered overlapping chunks,
	// replacing any previous decomposition.
	Split(ctx context.Context, docID string, maxChunkSize, overlap int) ([]domain.Chunk, error)

	// Chunks returns a document's chunks ordered by position.
	Chunks(ctx context.Context, docID string) ([]domain.Chunk, error)

	// SetChunkEmbeddings attaches externally computed embeddings to a
	// document's chunks, one per chunk in order, and indexes them.
	SetChunkEmbeddings(ctx context.Context, docID string, embeddings [][]float32) error
}
