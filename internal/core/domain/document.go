package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DefaultDimension is the embedding width used unless the store is
// created with a different one. Matches the sentence-transformer models
// the advisory pipeline produces embeddings with.
const DefaultDimension = 384

// Document is the canonical stored record. Embeddings always arrive
// precomputed from the external embedding collaborator; this core never
// computes them.
type Document struct {
	// ID is the internal surrogate key, assigned by the store.
	ID int64

	// DocID is the caller-supplied natural key, unique across the store.
	DocID string

	// Title is the human-readable title.
	Title string

	// Content is the full text. Never empty for a valid document.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// Embedding is the fixed-length vector for this document.
	// Its length must equal the store dimension.
	Embedding []float32

	// ContentHash is derived from the normalised content and backs
	// duplicate detection. Computed by the store, never by callers.
	ContentHash string

	// Source identifies the producing system or feed.
	Source string

	// DocumentType classifies the document (e.g. "research", "filing").
	DocumentType string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time
}

// Validate checks the document invariants against the store dimension.
func (d *Document) Validate(dimension int) error {
	if strings.TrimSpace(d.Content) == "" {
		return ErrValidation
	}
	if d.DocID == "" {
		return ErrValidation
	}
	if len(d.Embedding) != dimension {
		return ErrDimensionMismatch
	}
	return nil
}

// HashContent returns the content hash for duplicate detection:
// SHA-256 over the lowercased, whitespace-collapsed content, so that
// formatting-only variants of the same text collide.
func HashContent(content string) string {
	normalised := strings.ToLower(strings.Join(strings.Fields(content), " "))
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])
}

// Chunk is an ordered sub-segment of a document, independently
// searchable at finer granularity than its parent. Chunks are owned
// exclusively by one document and cascade-deleted with it.
type Chunk struct {
	// ID is the internal surrogate key, assigned by the store.
	ID int64

	// ChunkID is the unique external identifier for the chunk.
	ChunkID string

	// DocumentID links to the parent document's surrogate key.
	DocumentID int64

	// Content is the text of this chunk. Never empty.
	Content string

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any

	// Embedding is the chunk vector. Empty until the external embedder
	// attaches one via SetChunkEmbeddings.
	Embedding []float32

	// Order is the 0-based position within the parent document.
	// Contiguous and unique per parent.
	Order int

	// Overlap is the number of characters shared with the preceding chunk.
	Overlap int
}

// DocumentUpdate is a partial update applied atomically to a document.
// Nil fields are left untouched.
type DocumentUpdate struct {
	Title        *string
	Content      *string
	Metadata     map[string]any
	Embedding    []float32
	Source       *string
	DocumentType *string
}

// Empty reports whether the update would change nothing.
func (u DocumentUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Metadata == nil &&
		u.Embedding == nil && u.Source == nil && u.DocumentType == nil
}

// DocumentFilter narrows List results. Zero values mean "no constraint".
type DocumentFilter struct {
	// DocumentType filters by exact document type.
	DocumentType string

	// Source filters by exact source.
	Source string

	// Metadata matches documents whose metadata is a superset of this map.
	Metadata map[string]any

	// CreatedAfter / CreatedBefore bound the creation time (inclusive).
	CreatedAfter  time.Time
	CreatedBefore time.Time
}
