package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure CollectionStore implements the interface.
var _ driven.CollectionStore = (*CollectionStore)(nil)

// CollectionStore is an in-memory implementation of driven.CollectionStore.
// It needs the document store to resolve memberships.
type CollectionStore struct {
	mu      sync.RWMutex
	nextID  int64
	byName  map[string]*domain.Collection
	members map[int64]map[int64]time.Time // collectionID -> documentID -> added
	docs    *DocumentStore
}

// NewCollectionStore creates a new in-memory collection store backed by
// the given document store.
func NewCollectionStore(docs *DocumentStore) *CollectionStore {
	return &CollectionStore{
		byName:  make(map[string]*domain.Collection),
		members: make(map[int64]map[int64]time.Time),
		docs:    docs,
	}
}

// CreateCollection stores a new collection.
func (s *CollectionStore) CreateCollection(_ context.Context, collection *domain.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[collection.Name]; ok {
		return fmt.Errorf("collection %q: %w", collection.Name, domain.ErrAlreadyExists)
	}

	s.nextID++
	collection.ID = s.nextID
	collection.CreatedAt = time.Now().UTC()

	stored := *collection
	s.byName[collection.Name] = &stored
	s.members[collection.ID] = make(map[int64]time.Time)
	return nil
}

// GetCollection retrieves a collection by name.
func (s *CollectionStore) GetCollection(_ context.Context, name string) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection, ok := s.byName[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *collection
	return &out, nil
}

// ListCollections returns all collections ordered by name.
func (s *CollectionStore) ListCollections(_ context.Context) ([]domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var collections []domain.Collection
	for _, collection := range s.byName {
		collections = append(collections, *collection)
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i].Name < collections[j].Name })
	return collections, nil
}

// DeleteCollection removes a collection and its memberships.
func (s *CollectionStore) DeleteCollection(_ context.Context, collectionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, collection := range s.byName {
		if collection.ID == collectionID {
			delete(s.byName, name)
			delete(s.members, collectionID)
			return nil
		}
	}
	return domain.ErrNotFound
}

// AddMembership links a document to a collection. Idempotent.
func (s *CollectionStore) AddMembership(ctx context.Context, documentID, collectionID int64) error {
	s.docs.mu.RLock()
	docExists := s.docs.hasInternalID(documentID)
	s.docs.mu.RUnlock()
	if !docExists {
		return fmt.Errorf("document id %d: %w", documentID, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.members[collectionID]
	if !ok {
		return fmt.Errorf("collection id %d: %w", collectionID, domain.ErrNotFound)
	}
	if _, ok := members[documentID]; !ok {
		members[documentID] = time.Now().UTC()
	}
	return nil
}

// RemoveMembership unlinks a document from a collection.
func (s *CollectionStore) RemoveMembership(_ context.Context, documentID, collectionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.members[collectionID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := members[documentID]; !ok {
		return domain.ErrNotFound
	}
	delete(members, documentID)
	return nil
}

// CollectionDocuments returns the documents in a collection.
func (s *CollectionStore) CollectionDocuments(_ context.Context, collectionID int64) ([]domain.Document, error) {
	s.mu.RLock()
	members, ok := s.members[collectionID]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("collection id %d: %w", collectionID, domain.ErrNotFound)
	}
	ids := make(map[int64]struct{}, len(members))
	for id := range members {
		ids[id] = struct{}{}
	}
	s.mu.RUnlock()

	s.docs.mu.RLock()
	defer s.docs.mu.RUnlock()

	var docs []domain.Document
	for _, doc := range s.docs.byDoc {
		if _, ok := ids[doc.ID]; ok {
			docs = append(docs, *doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// EvictDocument drops all memberships of a deleted document.
func (s *CollectionStore) EvictDocument(documentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, members := range s.members {
		delete(members, documentID)
	}
}
