package driving

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// CollectionService manages collections, memberships and feedback.
type CollectionService interface {
	// Create stores a new collection.
	Create(ctx context.Context, name, description string, metadata map[string]any) (*domain.Collection, error)

	// List returns all collections.
	List(ctx context.Context) ([]domain.Collection, error)

	// AddDocument links a document to a collection. Idempotent.
	AddDocument(ctx context.Context, docID, collectionName string) error

	// RemoveDocument unlinks a document from a collection.
	RemoveDocument(ctx context.Context, docID, collectionName string) error

	// Documents returns the documents in a collection.
	Documents(ctx context.Context, collectionName string) ([]domain.Document, error)

	// RecordFeedback stores a relevance judgment for a logged query.
	RecordFeedback(ctx context.Context, queryLogID int64, docID string, score int, comment, userID string) error
}
