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

// collectionStore implements driven.CollectionStore.
type collectionStore struct {
	store *Store
}

var _ driven.CollectionStore = (*collectionStore)(nil)

// CreateCollection stores a new collection.
func (s *collectionStore) CreateCollection(ctx context.Context, collection *domain.Collection) error {
	var exists int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM collections WHERE collection_name = ?", collection.Name,
	).Scan(&exists)
	if err == nil {
		return fmt.Errorf("collection %q: %w", collection.Name, domain.ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking collection name: %w", err)
	}

	metadataJSON, err := json.Marshal(collection.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	collection.CreatedAt = time.Now().UTC()
	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO collections (collection_name, description, metadata, created_at)
		VALUES (?, ?, ?, ?)
	`, collection.Name, collection.Description, string(metadataJSON), collection.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting collection: %w", err)
	}

	collection.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting inserted id: %w", err)
	}
	return nil
}

// GetCollection retrieves a collection by name.
func (s *collectionStore) GetCollection(ctx context.Context, name string) (*domain.Collection, error) {
	var collection domain.Collection
	var metadataJSON string

	err := s.store.db.QueryRowContext(ctx, `
		SELECT id, collection_name, description, metadata, created_at
		FROM collections WHERE collection_name = ?
	`, name).Scan(&collection.ID, &collection.Name, &collection.Description,
		&metadataJSON, &collection.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &collection.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	return &collection, nil
}

// ListCollections returns all collections ordered by name.
func (s *collectionStore) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, collection_name, description, metadata, created_at
		FROM collections ORDER BY collection_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var collections []domain.Collection //nolint:prealloc // size unknown from query
	for rows.Next() {
		var collection domain.Collection
		var metadataJSON string
		if err := rows.Scan(&collection.ID, &collection.Name, &collection.Description,
			&metadataJSON, &collection.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &collection.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return collections, nil
}

// DeleteCollection removes a collection; memberships cascade. Documents
// themselves are untouched.
func (s *collectionStore) DeleteCollection(ctx context.Context, collectionID int64) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", collectionID)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddMembership links a document to a collection.
func (s *collectionStore) AddMembership(ctx context.Context, documentID, collectionID int64) error {
	if err := s.requireRow(ctx, "documents", documentID); err != nil {
		return err
	}
	if err := s.requireRow(ctx, "collections", collectionID); err != nil {
		return err
	}

	// INSERT OR IGNORE makes re-adding a no-op.
	_, err := s.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO document_collections (document_id, collection_id, added_at)
		VALUES (?, ?, ?)
	`, documentID, collectionID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

// RemoveMembership unlinks a document from a collection.
func (s *collectionStore) RemoveMembership(ctx context.Context, documentID, collectionID int64) error {
	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM document_collections WHERE document_id = ? AND collection_id = ?
	`, documentID, collectionID)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CollectionDocuments returns all documents belonging to a collection.
func (s *collectionStore) CollectionDocuments(ctx context.Context, collectionID int64) ([]domain.Document, error) {
	if err := s.requireRow(ctx, "collections", collectionID); err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, selectDocument+`
		JOIN document_collections dc ON dc.document_id = documents.id
		WHERE dc.collection_id = ?
		ORDER BY documents.id
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("querying collection documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collection documents: %w", err)
	}
	return docs, nil
}

// requireRow fails domain.ErrNotFound unless the table has a row with
// the given id. Table names are fixed at the call sites.
func (s *collectionStore) requireRow(ctx context.Context, table string, id int64) error {
	var exists int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT 1 FROM "+table+" WHERE id = ?", id,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s id %d: %w", table, id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", table, err)
	}
	return nil
}
