package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// Ensure the stores implement their interfaces.
var (
	_ driven.QueryLogStore = (*QueryLogStore)(nil)
	_ driven.FeedbackStore = (*FeedbackStore)(nil)
)

// QueryLogStore is an in-memory implementation of driven.QueryLogStore.
type QueryLogStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.QueryLogEntry
}

// NewQueryLogStore creates a new in-memory query log.
func NewQueryLogStore() *QueryLogStore {
	return &QueryLogStore{}
}

// Append stores a completed search.
func (s *QueryLogStore) Append(_ context.Context, entry *domain.QueryLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Get retrieves a log entry by ID.
func (s *QueryLogStore) Get(_ context.Context, id int64) (*domain.QueryLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			out := entry
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Recent returns the newest entries first.
func (s *QueryLogStore) Recent(_ context.Context, limit int) ([]domain.QueryLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	if limit > len(s.entries) {
		limit = len(s.entries)
	}

	out := make([]domain.QueryLogEntry, 0, limit)
	for n := len(s.entries) - 1; n >= 0 && len(out) < limit; n-- {
		out = append(out, s.entries[n])
	}
	return out, nil
}

// FeedbackStore is an in-memory implementation of driven.FeedbackStore.
// Parent existence is checked against the query log and document stores.
type FeedbackStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.FeedbackEntry
	log     *QueryLogStore
	docs    *DocumentStore
}

// NewFeedbackStore creates a new in-memory feedback store.
func NewFeedbackStore(log *QueryLogStore, docs *DocumentStore) *FeedbackStore {
	return &FeedbackStore{log: log, docs: docs}
}

// Record stores a relevance judgment.
func (s *FeedbackStore) Record(ctx context.Context, entry *domain.FeedbackEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("relevance score must be between %d and %d: %w",
			domain.MinRelevanceScore, domain.MaxRelevanceScore, err)
	}
	if _, err := s.log.Get(ctx, entry.QueryLogID); err != nil {
		return fmt.Errorf("query log entry %d: %w", entry.QueryLogID, err)
	}

	s.docs.mu.RLock()
	docExists := s.docs.hasInternalID(entry.DocumentID)
	s.docs.mu.RUnlock()
	if !docExists {
		return fmt.Errorf("document %d: %w", entry.DocumentID, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry.ID = s.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// ForDocument returns all feedback recorded against a document.
func (s *FeedbackStore) ForDocument(_ context.Context, documentID int64) ([]domain.FeedbackEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FeedbackEntry
	for _, entry := range s.entries {
		if entry.DocumentID == documentID {
			out = append(out, entry)
		}
	}
	return out, nil
}
