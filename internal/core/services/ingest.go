package services

import (
	"context"
	"fmt"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/logger"
	"github.com/arcadia-labs/corpus-cli/internal/postprocessors/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService manages the document lifecycle. Every document mutation
// keeps the vector index in step with the store.
type IngestService struct {
	docStore  driven.DocumentStore
	index     driven.VectorIndex
	dimension int
}

// NewIngestService creates a new ingest service. The dimension is the
// embedding width enforced at every boundary.
func NewIngestService(docStore driven.DocumentStore, index driven.VectorIndex, dimension int) *IngestService {
	if dimension <= 0 {
		dimension = domain.DefaultDimension
	}
	return &IngestService{
		docStore:  docStore,
		index:     index,
		dimension: dimension,
	}
}

// Ingest validates and stores a document, indexes its vector, and
// optionally splits it into chunks.
func (s *IngestService) Ingest(ctx context.Context, doc *domain.Document, opts driving.IngestOptions) error {
	if err := doc.Validate(s.dimension); err != nil {
		if len(doc.Embedding) != s.dimension {
			return fmt.Errorf("embedding has %d dimensions, store expects %d: %w",
				len(doc.Embedding), s.dimension, domain.ErrDimensionMismatch)
		}
		return fmt.Errorf("invalid document: %w", err)
	}

	replacedID, replacedChunkIDs, err := s.docStore.PutDocument(ctx, doc, opts.Overwrite)
	if err != nil {
		return fmt.Errorf("storing document: %w", err)
	}

	// An overwrite replaced another document; its vectors must not
	// linger in the index.
	if replacedID != 0 {
		if err := s.index.Delete(ctx, replacedID); err != nil {
			return fmt.Errorf("evicting replaced document vector: %w", err)
		}
		for _, chunkID := range replacedChunkIDs {
			if err := s.index.Delete(ctx, -chunkID); err != nil {
				return fmt.Errorf("evicting replaced chunk vector: %w", err)
			}
		}
	}

	if err := s.index.Add(ctx, doc.ID, doc.Embedding); err != nil {
		return fmt.Errorf("indexing document: %w", err)
	}

	logger.Debug("Ingested document %s (id=%d, %d chars)", doc.DocID, doc.ID, len(doc.Content))

	if opts.MaxChunkSize > 0 && len(doc.Content) > opts.MaxChunkSize {
		if _, err := s.Split(ctx, doc.DocID, opts.MaxChunkSize, opts.ChunkOverlap); err != nil {
			return fmt.Errorf("splitting document: %w", err)
		}
	}

	return nil
}

// Update applies a partial update and refreshes the index when the
// embedding changed.
func (s *IngestService) Update(ctx context.Context, docID string, update domain.DocumentUpdate) (*domain.Document, error) {
	if update.Empty() {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrInvalidArgument)
	}
	if update.Embedding != nil && len(update.Embedding) != s.dimension {
		return nil, fmt.Errorf("embedding has %d dimensions, store expects %d: %w",
			len(update.Embedding), s.dimension, domain.ErrDimensionMismatch)
	}

	doc, err := s.docStore.UpdateDocument(ctx, docID, update)
	if err != nil {
		return nil, err
	}

	if update.Embedding != nil {
		if err := s.index.Add(ctx, doc.ID, doc.Embedding); err != nil {
			return nil, fmt.Errorf("reindexing document: %w", err)
		}
	}

	logger.Debug("Updated document %s", docID)
	return doc, nil
}

// Get retrieves a document by its natural key.
func (s *IngestService) Get(ctx context.Context, docID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, docID)
}

// Delete removes a document and evicts its vectors from the index.
// The store cascade covers chunks, memberships and feedback.
func (s *IngestService) Delete(ctx context.Context, docID string) error {
	internalID, chunkIDs, err := s.docStore.DeleteDocument(ctx, docID)
	if err != nil {
		return err
	}

	if err := s.index.Delete(ctx, internalID); err != nil {
		return fmt.Errorf("evicting document vector: %w", err)
	}
	for _, chunkID := range chunkIDs {
		if err := s.index.Delete(ctx, -chunkID); err != nil {
			return fmt.Errorf("evicting chunk vector: %w", err)
		}
	}

	logger.Debug("Deleted document %s (%d chunks)", docID, len(chunkIDs))
	return nil
}

// List returns documents matching the filter.
func (s *IngestService) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx, filter)
}

// Split decomposes a stored document into ordered overlapping chunks,
// replacing any previous decomposition. Chunks start without
// embeddings; SetChunkEmbeddings attaches them later.
func (s *IngestService) Split(ctx context.Context, docID string, maxChunkSize, overlap int) ([]domain.Chunk, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive: %w", domain.ErrInvalidArgument)
	}

	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}

	processor := chunker.New(chunker.WithChunkSize(maxChunkSize), chunker.WithOverlap(overlap))
	chunks := processor.Split(doc)

	// Old chunk vectors leave the index with the old decomposition.
	oldChunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("loading old chunks: %w", err)
	}
	for _, old := range oldChunks {
		if err := s.index.Delete(ctx, -old.ID); err != nil {
			return nil, fmt.Errorf("evicting old chunk vector: %w", err)
		}
	}

	stored, err := s.docStore.ReplaceChunks(ctx, doc.ID, chunks)
	if err != nil {
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	logger.Debug("Split document %s into %d chunks", docID, len(stored))
	return stored, nil
}

// Chunks returns a document's chunks ordered by position.
func (s *IngestService) Chunks(ctx context.Context, docID string) ([]domain.Chunk, error) {
	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	return s.docStore.GetChunks(ctx, doc.ID)
}

// SetChunkEmbeddings attaches externally computed embeddings to a
// document's chunks, one per chunk in order, and indexes them. Chunk
// vectors live in the same index as documents under negated internal
// ids so the two key spaces cannot collide.
func (s *IngestService) SetChunkEmbeddings(ctx context.Context, docID string, embeddings [][]float32) error {
	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("loading chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("got %d embeddings for %d chunks: %w",
			len(embeddings), len(chunks), domain.ErrInvalidArgument)
	}

	for n, chunk := range chunks {
		if len(embeddings[n]) != s.dimension {
			return fmt.Errorf("chunk %d embedding has %d dimensions, store expects %d: %w",
				n, len(embeddings[n]), s.dimension, domain.ErrDimensionMismatch)
		}
		if err := s.docStore.SetChunkEmbedding(ctx, chunk.ID, embeddings[n]); err != nil {
			return fmt.Errorf("storing chunk embedding: %w", err)
		}
		if err := s.index.Add(ctx, -chunk.ID, embeddings[n]); err != nil {
			return fmt.Errorf("indexing chunk: %w", err)
		}
	}

	logger.Debug("Attached %d chunk embeddings to document %s", len(embeddings), docID)
	return nil
}
