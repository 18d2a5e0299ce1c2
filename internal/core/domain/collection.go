package domain

import "time"

// Collection is a named grouping of documents.
type Collection struct {
	// ID is the internal surrogate key, assigned by the store.
	ID int64

	// Name is the unique collection name.
	Name string

	// Description is a free-text description.
	Description string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the collection was created.
	CreatedAt time.Time
}

// Membership links a document to a collection. The (DocumentID,
// CollectionID) pair is the composite key; memberships cascade when
// either side is deleted.
type Membership struct {
	DocumentID   int64
	CollectionID int64
	AddedAt      time.Time
}
