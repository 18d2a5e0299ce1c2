package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Mirrors the SQLite adapter's semantics, including content-hash
// duplicate detection and cascading chunk deletion.
type DocumentStore struct {
	mu     sync.RWMutex
	nextID int64
	byDoc  map[string]*domain.Document
	chunks map[int64][]domain.Chunk
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		byDoc:  make(map[string]*domain.Document),
		chunks: make(map[int64][]domain.Chunk),
	}
}

// PutDocument inserts or re-ingests a document. When overwrite replaces
// a colliding document, its internal id and chunk ids are returned.
func (s *DocumentStore) PutDocument(_ context.Context, doc *domain.Document, overwrite bool) (int64, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var replacedID int64
	var replacedChunkIDs []int64
	hash := domain.HashContent(doc.Content)
	for _, other := range s.byDoc {
		if other.ContentHash == hash && other.DocID != doc.DocID {
			if !overwrite {
				return 0, nil, fmt.Errorf("document %q has identical content: %w", other.DocID, domain.ErrDuplicateContent)
			}
			for _, chunk := range s.chunks[other.ID] {
				replacedChunkIDs = append(replacedChunkIDs, chunk.ID)
			}
			replacedID = other.ID
			delete(s.chunks, other.ID)
			delete(s.byDoc, other.DocID)
			break
		}
	}

	now := time.Now().UTC()
	if existing, ok := s.byDoc[doc.DocID]; ok {
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
	} else {
		s.nextID++
		doc.ID = s.nextID
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	doc.ContentHash = hash

	stored := *doc
	s.byDoc[doc.DocID] = &stored
	return replacedID, replacedChunkIDs, nil
}

// UpdateDocument applies a partial update.
func (s *DocumentStore) UpdateDocument(_ context.Context, docID string, update domain.DocumentUpdate) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.byDoc[docID]
	if !ok {
		return nil, domain.ErrNotFound
	}

	next := *doc
	if update.Title != nil {
		next.Title = *update.Title
	}
	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			return nil, fmt.Errorf("content must not be empty: %w", domain.ErrValidation)
		}
		next.Content = *update.Content
	}
	if update.Metadata != nil {
		next.Metadata = update.Metadata
	}
	if update.Embedding != nil {
		next.Embedding = update.Embedding
	}
	if update.Source != nil {
		next.Source = *update.Source
	}
	if update.DocumentType != nil {
		next.DocumentType = *update.DocumentType
	}

	hash := domain.HashContent(next.Content)
	if hash != next.ContentHash {
		for _, other := range s.byDoc {
			if other.ContentHash == hash && other.DocID != docID {
				return nil, fmt.Errorf("document %q has identical content: %w", other.DocID, domain.ErrDuplicateContent)
			}
		}
		next.ContentHash = hash
	}
	next.UpdatedAt = time.Now().UTC()

	s.byDoc[docID] = &next
	out := next
	return &out, nil
}

// GetDocument retrieves a document by its natural key.
func (s *DocumentStore) GetDocument(_ context.Context, docID string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.byDoc[docID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *doc
	return &out, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, docID string) (int64, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.byDoc[docID]
	if !ok {
		return 0, nil, domain.ErrNotFound
	}

	var chunkIDs []int64
	for _, chunk := range s.chunks[doc.ID] {
		chunkIDs = append(chunkIDs, chunk.ID)
	}
	delete(s.chunks, doc.ID)
	delete(s.byDoc, docID)
	return doc.ID, chunkIDs, nil
}

// ListDocuments returns documents matching the filter, ordered by
// internal id.
func (s *DocumentStore) ListDocuments(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.byDoc {
		if filter.DocumentType != "" && doc.DocumentType != filter.DocumentType {
			continue
		}
		if filter.Source != "" && doc.Source != filter.Source {
			continue
		}
		if !filter.CreatedAfter.IsZero() && doc.CreatedAt.Before(filter.CreatedAfter) {
			continue
		}
		if !filter.CreatedBefore.IsZero() && doc.CreatedAt.After(filter.CreatedBefore) {
			continue
		}
		if filter.Metadata != nil && !domain.MetadataContains(doc.Metadata, filter.Metadata) {
			continue
		}
		docs = append(docs, *doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// ReplaceChunks atomically replaces all chunks of a document.
func (s *DocumentStore) ReplaceChunks(_ context.Context, docInternalID int64, chunks []domain.Chunk) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasInternalID(docInternalID) {
		return nil, domain.ErrNotFound
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		s.nextID++
		chunk.ID = s.nextID
		chunk.DocumentID = docInternalID
		out = append(out, chunk)
	}
	s.chunks[docInternalID] = out

	result := make([]domain.Chunk, len(out))
	copy(result, out)
	return result, nil
}

// GetChunks returns a document's chunks ordered by position.
func (s *DocumentStore) GetChunks(_ context.Context, docInternalID int64) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks := s.chunks[docInternalID]
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// SetChunkEmbedding attaches an embedding to a stored chunk.
func (s *DocumentStore) SetChunkEmbedding(_ context.Context, chunkInternalID int64, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for docID, chunks := range s.chunks {
		for n := range chunks {
			if chunks[n].ID == chunkInternalID {
				chunks[n].Embedding = embedding
				s.chunks[docID] = chunks
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

// Stats returns aggregate counts over the whole store.
func (s *DocumentStore) Stats(_ context.Context) (*domain.DocumentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.DocumentStats{}
	sources := make(map[string]struct{})
	types := make(map[string]struct{})
	var totalLen int64

	for _, doc := range s.byDoc {
		stats.TotalDocuments++
		totalLen += int64(len(doc.Content))
		sources[doc.Source] = struct{}{}
		types[doc.DocumentType] = struct{}{}
		created := doc.CreatedAt
		if stats.OldestDocument == nil || created.Before(*stats.OldestDocument) {
			t := created
			stats.OldestDocument = &t
		}
		if stats.NewestDocument == nil || created.After(*stats.NewestDocument) {
			t := created
			stats.NewestDocument = &t
		}
	}
	for _, chunks := range s.chunks {
		stats.TotalChunks += int64(len(chunks))
	}

	if stats.TotalDocuments > 0 {
		stats.AvgContentLength = float64(totalLen) / float64(stats.TotalDocuments)
		stats.DistinctSources = int64(len(sources))
		stats.DistinctTypes = int64(len(types))
	}
	return stats, nil
}

// hasInternalID reports whether a document with the internal id exists.
// Caller must hold the lock.
func (s *DocumentStore) hasInternalID(id int64) bool {
	for _, doc := range s.byDoc {
		if doc.ID == id {
			return true
		}
	}
	return false
}
