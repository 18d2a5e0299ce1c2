package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.corpus/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// CollectionStore returns a CollectionStore interface backed by this store.
func (s *Store) CollectionStore() driven.CollectionStore {
	return &collectionStore{store: s}
}

// QueryLogStore returns a QueryLogStore interface backed by this store.
func (s *Store) QueryLogStore() driven.QueryLogStore {
	return &queryLogStore{store: s}
}

// FeedbackStore returns a FeedbackStore interface backed by this store.
func (s *Store) FeedbackStore() driven.FeedbackStore {
	return &feedbackStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// PutDocument inserts a new document or mutates the row sharing its
// DocID. A content-hash collision with a different document fails with
// domain.ErrDuplicateContent; with overwrite set, the colliding row is
// removed (cascading to its children) and the new document takes its
// place. The removed row's internal id and chunk ids are returned so
// the caller can evict their vectors.
func (s *documentStore) PutDocument(ctx context.Context, doc *domain.Document, overwrite bool) (int64, []int64, error) {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return 0, nil, fmt.Errorf("marshalling metadata: %w", err)
	}
	hash := domain.HashContent(doc.Content)

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// A different document with the same normalised content?
	var replacedID int64
	var replacedChunkIDs []int64
	var collidingID int64
	var collidingDocID string
	err = tx.QueryRowContext(ctx, `
		SELECT id, doc_id FROM documents WHERE content_hash = ? AND doc_id != ?
	`, hash, doc.DocID).Scan(&collidingID, &collidingDocID)
	switch {
	case err == nil:
		if !overwrite {
			return 0, nil, fmt.Errorf("document %q has identical content: %w", collidingDocID, domain.ErrDuplicateContent)
		}
		replacedChunkIDs, err = chunkIDsOf(ctx, tx, collidingID)
		if err != nil {
			return 0, nil, err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", collidingID); err != nil {
			return 0, nil, fmt.Errorf("replacing duplicate document: %w", err)
		}
		replacedID = collidingID
	case errors.Is(err, sql.ErrNoRows):
		// No collision.
	default:
		return 0, nil, fmt.Errorf("checking content hash: %w", err)
	}

	now := time.Now().UTC()
	var existingID int64
	var createdAt time.Time
	err = tx.QueryRowContext(ctx,
		"SELECT id, created_at FROM documents WHERE doc_id = ?", doc.DocID,
	).Scan(&existingID, &createdAt)

	switch {
	case err == nil:
		// Re-ingest: mutate in place, refresh updated_at.
		doc.ID = existingID
		doc.CreatedAt = createdAt
		doc.UpdatedAt = now
		_, err = tx.ExecContext(ctx, `
			UPDATE documents
			SET title = ?, content = ?, metadata = ?, embedding = ?,
				content_hash = ?, source = ?, document_type = ?, updated_at = ?
			WHERE id = ?
		`, doc.Title, doc.Content, string(metadataJSON), float32SliceToBytes(doc.Embedding),
			hash, doc.Source, doc.DocumentType, doc.UpdatedAt, doc.ID)
		if err != nil {
			return 0, nil, fmt.Errorf("updating document: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		doc.CreatedAt = now
		doc.UpdatedAt = now
		res, err := tx.ExecContext(ctx, `
			INSERT INTO documents (doc_id, title, content, metadata, embedding,
				content_hash, source, document_type, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, doc.DocID, doc.Title, doc.Content, string(metadataJSON), float32SliceToBytes(doc.Embedding),
			hash, doc.Source, doc.DocumentType, doc.CreatedAt, doc.UpdatedAt)
		if err != nil {
			return 0, nil, fmt.Errorf("inserting document: %w", err)
		}
		doc.ID, err = res.LastInsertId()
		if err != nil {
			return 0, nil, fmt.Errorf("getting inserted id: %w", err)
		}
	default:
		return 0, nil, fmt.Errorf("checking doc_id: %w", err)
	}

	doc.ContentHash = hash

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("committing transaction: %w", err)
	}
	return replacedID, replacedChunkIDs, nil
}

// UpdateDocument applies a partial update in a single transaction.
// SQLite's single-writer model serialises concurrent updates on the
// same document, so field writes never interleave.
func (s *documentStore) UpdateDocument(ctx context.Context, docID string, update domain.DocumentUpdate) (*domain.Document, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	doc, err := scanDocument(tx.QueryRowContext(ctx, selectDocument+" WHERE doc_id = ?", docID))
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		doc.Title = *update.Title
	}
	if update.Content != nil {
		if strings.TrimSpace(*update.Content) == "" {
			return nil, fmt.Errorf("content must not be empty: %w", domain.ErrValidation)
		}
		doc.Content = *update.Content
	}
	if update.Metadata != nil {
		doc.Metadata = update.Metadata
	}
	if update.Embedding != nil {
		doc.Embedding = update.Embedding
	}
	if update.Source != nil {
		doc.Source = *update.Source
	}
	if update.DocumentType != nil {
		doc.DocumentType = *update.DocumentType
	}

	hash := domain.HashContent(doc.Content)
	if hash != doc.ContentHash {
		var collidingDocID string
		err = tx.QueryRowContext(ctx,
			"SELECT doc_id FROM documents WHERE content_hash = ? AND doc_id != ?", hash, docID,
		).Scan(&collidingDocID)
		if err == nil {
			return nil, fmt.Errorf("document %q has identical content: %w", collidingDocID, domain.ErrDuplicateContent)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("checking content hash: %w", err)
		}
		doc.ContentHash = hash
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshalling metadata: %w", err)
	}

	doc.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE documents
		SET title = ?, content = ?, metadata = ?, embedding = ?,
			content_hash = ?, source = ?, document_type = ?, updated_at = ?
		WHERE id = ?
	`, doc.Title, doc.Content, string(metadataJSON), float32SliceToBytes(doc.Embedding),
		doc.ContentHash, doc.Source, doc.DocumentType, doc.UpdatedAt, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("updating document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return doc, nil
}

// GetDocument retrieves a document by its natural key.
func (s *documentStore) GetDocument(ctx context.Context, docID string) (*domain.Document, error) {
	return scanDocument(s.store.db.QueryRowContext(ctx, selectDocument+" WHERE doc_id = ?", docID))
}

// DeleteDocument removes a document; foreign keys cascade to chunks,
// memberships and feedback within the same transaction.
func (s *documentStore) DeleteDocument(ctx context.Context, docID string) (int64, []int64, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var internalID int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM documents WHERE doc_id = ?", docID).Scan(&internalID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, domain.ErrNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("looking up document: %w", err)
	}

	chunkIDs, err := chunkIDsOf(ctx, tx, internalID)
	if err != nil {
		return 0, nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", internalID); err != nil {
		return 0, nil, fmt.Errorf("deleting document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("committing transaction: %w", err)
	}
	return internalID, chunkIDs, nil
}

// ListDocuments returns documents matching the filter. Equality and
// time-range constraints are pushed into SQL; metadata containment is a
// recursive subset match evaluated in Go.
func (s *documentStore) ListDocuments(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	query := selectDocument
	var conds []string
	var args []any

	if filter.DocumentType != "" {
		conds = append(conds, "document_type = ?")
		args = append(args, filter.DocumentType)
	}
	if filter.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, filter.Source)
	}
	if !filter.CreatedAfter.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.CreatedAfter.UTC())
	}
	if !filter.CreatedBefore.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, filter.CreatedBefore.UTC())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		if filter.Metadata != nil && !domain.MetadataContains(doc.Metadata, filter.Metadata) {
			continue
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ReplaceChunks atomically replaces all chunks of a document.
func (s *documentStore) ReplaceChunks(ctx context.Context, docInternalID int64, chunks []domain.Chunk) ([]domain.Chunk, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", docInternalID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", docInternalID); err != nil {
		return nil, fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (chunk_id, document_id, content, metadata, embedding, chunk_order, chunk_overlap)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	out := make([]domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		chunk.DocumentID = docInternalID
		res, err := stmt.ExecContext(ctx, chunk.ChunkID, chunk.DocumentID, chunk.Content,
			string(metadataJSON), float32SliceToBytes(chunk.Embedding), chunk.Order, chunk.Overlap)
		if err != nil {
			return nil, fmt.Errorf("saving chunk: %w", err)
		}
		chunk.ID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting inserted chunk id: %w", err)
		}
		out = append(out, chunk)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return out, nil
}

// GetChunks retrieves all chunks for a document, ordered by position.
func (s *documentStore) GetChunks(ctx context.Context, docInternalID int64) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, chunk_id, document_id, content, metadata, embedding, chunk_order, chunk_overlap
		FROM chunks WHERE document_id = ?
		ORDER BY chunk_order
	`, docInternalID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// SetChunkEmbedding attaches an embedding to a stored chunk.
func (s *documentStore) SetChunkEmbedding(ctx context.Context, chunkInternalID int64, embedding []float32) error {
	res, err := s.store.db.ExecContext(ctx,
		"UPDATE chunks SET embedding = ? WHERE id = ?",
		float32SliceToBytes(embedding), chunkInternalID)
	if err != nil {
		return fmt.Errorf("updating chunk embedding: %w", err)
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

// Stats returns aggregate counts over the whole store. An empty store
// yields zero counts and nil timestamps.
func (s *documentStore) Stats(ctx context.Context) (*domain.DocumentStats, error) {
	stats := &domain.DocumentStats{}

	var avgLen sql.NullFloat64
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(LENGTH(content)), 0),
			COUNT(DISTINCT source),
			COUNT(DISTINCT document_type)
		FROM documents
	`).Scan(&stats.TotalDocuments, &avgLen, &stats.DistinctSources,
		&stats.DistinctTypes)
	if err != nil {
		return nil, fmt.Errorf("querying document stats: %w", err)
	}

	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks",
	).Scan(&stats.TotalChunks); err != nil {
		return nil, fmt.Errorf("querying chunk count: %w", err)
	}

	if avgLen.Valid {
		stats.AvgContentLength = avgLen.Float64
	}

	// MIN/MAX aggregates lose the DATETIME column affinity under this
	// driver, so read the raw column with an ordered LIMIT 1 instead.
	oldest, err := s.timestampEdge(ctx, "ASC")
	if err != nil {
		return nil, err
	}
	stats.OldestDocument = oldest

	newest, err := s.timestampEdge(ctx, "DESC")
	if err != nil {
		return nil, err
	}
	stats.NewestDocument = newest

	return stats, nil
}

// timestampEdge returns the first created_at in the given order, or
// nil for an empty store.
func (s *documentStore) timestampEdge(ctx context.Context, order string) (*time.Time, error) {
	var ts time.Time
	err := s.store.db.QueryRowContext(ctx,
		"SELECT created_at FROM documents ORDER BY created_at "+order+" LIMIT 1",
	).Scan(&ts)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("querying created_at bound: %w", err)
	}
	return &ts, nil
}

// ==================== Helper Functions ====================

// chunkIDsOf returns the internal ids of a document's chunks within tx.
func chunkIDsOf(ctx context.Context, tx *sql.Tx, docInternalID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM chunks WHERE document_id = ?", docInternalID)
	if err != nil {
		return nil, fmt.Errorf("querying chunk ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning chunk id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunk ids: %w", err)
	}
	return ids, nil
}

const selectDocument = `
	SELECT id, doc_id, title, content, metadata, embedding,
		content_hash, source, document_type, created_at, updated_at
	FROM documents`

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	doc, err := scanDocumentFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	return scanDocumentFrom(rows)
}

func scanDocumentFrom(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var metadataJSON string
	var embeddingBlob []byte

	if err := row.Scan(&doc.ID, &doc.DocID, &doc.Title, &doc.Content, &metadataJSON,
		&embeddingBlob, &doc.ContentHash, &doc.Source, &doc.DocumentType,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var metadataJSON string
	var embeddingBlob []byte

	if err := rows.Scan(&chunk.ID, &chunk.ChunkID, &chunk.DocumentID, &chunk.Content,
		&metadataJSON, &embeddingBlob, &chunk.Order, &chunk.Overlap); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}
