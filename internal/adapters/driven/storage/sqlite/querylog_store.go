package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// queryLogStore implements driven.QueryLogStore.
type queryLogStore struct {
	store *Store
}

var _ driven.QueryLogStore = (*queryLogStore)(nil)

// Append stores a completed search.
func (s *queryLogStore) Append(ctx context.Context, entry *domain.QueryLogEntry) error {
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO query_log (query_text, embedding, result_count, latency_ms, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.QueryText, float32SliceToBytes(entry.Embedding), entry.ResultCount,
		entry.LatencyMS, string(metadataJSON), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting query log entry: %w", err)
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting inserted id: %w", err)
	}
	return nil
}

// Get retrieves a log entry by ID.
func (s *queryLogStore) Get(ctx context.Context, id int64) (*domain.QueryLogEntry, error) {
	var entry domain.QueryLogEntry
	var metadataJSON string
	var embeddingBlob []byte

	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, query_text, embedding, result_count, latency_ms, metadata, created_at
		FROM query_log WHERE id = ?
	`, id).Scan(&entry.ID, &entry.QueryText, &embeddingBlob, &entry.ResultCount,
		&entry.LatencyMS, &metadataJSON, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying log entry: %w", err)
	}

	entry.Embedding = bytesToFloat32Slice(embeddingBlob)
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	return &entry, nil
}

// Recent returns the newest entries first.
func (s *queryLogStore) Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query_text, embedding, result_count, latency_ms, metadata, created_at
		FROM query_log ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.QueryLogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.QueryLogEntry
		var metadataJSON string
		var embeddingBlob []byte
		if err := rows.Scan(&entry.ID, &entry.QueryText, &embeddingBlob, &entry.ResultCount,
			&entry.LatencyMS, &metadataJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning log entry: %w", err)
		}
		entry.Embedding = bytesToFloat32Slice(embeddingBlob)
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating log entries: %w", err)
	}
	return entries, nil
}

// feedbackStore implements driven.FeedbackStore.
type feedbackStore struct {
	store *Store
}

var _ driven.FeedbackStore = (*feedbackStore)(nil)

// Record stores a relevance judgment. Both parents must exist.
func (s *feedbackStore) Record(ctx context.Context, entry *domain.FeedbackEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("relevance score must be between %d and %d: %w",
			domain.MinRelevanceScore, domain.MaxRelevanceScore, err)
	}

	var exists int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM query_log WHERE id = ?", entry.QueryLogID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("query log entry %d: %w", entry.QueryLogID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking query log entry: %w", err)
	}

	err = s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM documents WHERE id = ?", entry.DocumentID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("document %d: %w", entry.DocumentID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking document: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO feedback (query_log_id, document_id, relevance_score, comment, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.QueryLogID, entry.DocumentID, entry.RelevanceScore,
		entry.Comment, entry.UserID, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}

	entry.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting inserted id: %w", err)
	}
	return nil
}

// ForDocument returns all feedback recorded against a document.
func (s *feedbackStore) ForDocument(ctx context.Context, documentID int64) ([]domain.FeedbackEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, query_log_id, document_id, relevance_score, comment, user_id, created_at
		FROM feedback WHERE document_id = ?
		ORDER BY id
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var entries []domain.FeedbackEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.FeedbackEntry
		if err := rows.Scan(&entry.ID, &entry.QueryLogID, &entry.DocumentID,
			&entry.RelevanceScore, &entry.Comment, &entry.UserID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return entries, nil
}
