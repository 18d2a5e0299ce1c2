package driven

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// CollectionStore persists collections and document memberships.
type CollectionStore interface {
	// CreateCollection stores a new collection and assigns its ID.
	// Fails domain.ErrAlreadyExists on a duplicate name.
	CreateCollection(ctx context.Context, collection *domain.Collection) error

	// GetCollection retrieves a collection by name.
	GetCollection(ctx context.Context, name string) (*domain.Collection, error)

	// ListCollections returns all collections.
	ListCollections(ctx context.Context) ([]domain.Collection, error)

	// DeleteCollection removes a collection and its memberships.
	DeleteCollection(ctx context.Context, collectionID int64) error

	// AddMembership links a document to a collection. Idempotent:
	// re-adding an existing membership is a no-op.
	AddMembership(ctx context.Context, documentID, collectionID int64) error

	// RemoveMembership unlinks a document from a collection.
	RemoveMembership(ctx context.Context, documentID, collectionID int64) error

	// CollectionDocuments returns the documents in a collection.
	CollectionDocuments(ctx context.Context, collectionID int64) ([]domain.Document, error)
}
