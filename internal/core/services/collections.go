package services

import (
	"context"
	"fmt"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages collections, memberships and feedback.
type CollectionService struct {
	docStore    driven.DocumentStore
	collections driven.CollectionStore
	feedback    driven.FeedbackStore
}

// NewCollectionService creates a new collection service.
func NewCollectionService(docStore driven.DocumentStore, collections driven.CollectionStore, feedback driven.FeedbackStore) *CollectionService {
	return &CollectionService{
		docStore:    docStore,
		collections: collections,
		feedback:    feedback,
	}
}

// Create stores a new collection.
func (s *CollectionService) Create(ctx context.Context, name, description string, metadata map[string]any) (*domain.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name must not be empty: %w", domain.ErrValidation)
	}

	collection := &domain.Collection{
		Name:        name,
		Description: description,
		Metadata:    metadata,
	}
	if err := s.collections.CreateCollection(ctx, collection); err != nil {
		return nil, err
	}

	logger.Debug("Created collection %s (id=%d)", name, collection.ID)
	return collection, nil
}

// List returns all collections.
func (s *CollectionService) List(ctx context.Context) ([]domain.Collection, error) {
	return s.collections.ListCollections(ctx)
}

// AddDocument links a document to a collection. Idempotent.
func (s *CollectionService) AddDocument(ctx context.Context, docID, collectionName string) error {
	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("looking up document %q: %w", docID, err)
	}
	collection, err := s.collections.GetCollection(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("looking up collection %q: %w", collectionName, err)
	}
	return s.collections.AddMembership(ctx, doc.ID, collection.ID)
}

// RemoveDocument unlinks a document from a collection.
func (s *CollectionService) RemoveDocument(ctx context.Context, docID, collectionName string) error {
	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("looking up document %q: %w", docID, err)
	}
	collection, err := s.collections.GetCollection(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("looking up collection %q: %w", collectionName, err)
	}
	return s.collections.RemoveMembership(ctx, doc.ID, collection.ID)
}

// Documents returns the documents in a collection.
func (s *CollectionService) Documents(ctx context.Context, collectionName string) ([]domain.Document, error) {
	collection, err := s.collections.GetCollection(ctx, collectionName)
	if err != nil {
		return nil, fmt.Errorf("looking up collection %q: %w", collectionName, err)
	}
	return s.collections.CollectionDocuments(ctx, collection.ID)
}

// RecordFeedback stores a relevance judgment for a logged query.
func (s *CollectionService) RecordFeedback(ctx context.Context, queryLogID int64, docID string, score int, comment, userID string) error {
	doc, err := s.docStore.GetDocument(ctx, docID)
	if err != nil {
		return fmt.Errorf("looking up document %q: %w", docID, err)
	}

	entry := &domain.FeedbackEntry{
		QueryLogID:     queryLogID,
		DocumentID:     doc.ID,
		RelevanceScore: score,
		Comment:        comment,
		UserID:         userID,
	}
	if err := s.feedback.Record(ctx, entry); err != nil {
		return err
	}

	logger.Debug("Recorded feedback %d for document %s (score=%d)", entry.ID, docID, score)
	return nil
}
