package driven

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// QueryLogStore records completed searches. Entries are append-only.
type QueryLogStore interface {
	// Append stores a new log entry and assigns its ID.
	Append(ctx context.Context, entry *domain.QueryLogEntry) error

	// Get retrieves a log entry by ID.
	Get(ctx context.Context, id int64) (*domain.QueryLogEntry, error)

	// Recent returns the most recent entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error)
}

// FeedbackStore records relevance judgments against logged queries.
type FeedbackStore interface {
	// Record stores a feedback entry and assigns its ID. Fails
	// domain.ErrNotFound if the referenced query log entry or document
	// does not exist.
	Record(ctx context.Context, entry *domain.FeedbackEntry) error

	// ForDocument returns all feedback for a document.
	ForDocument(ctx context.Context, documentID int64) ([]domain.FeedbackEntry, error)
}
