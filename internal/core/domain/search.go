package domain

import "time"

// Search defaults. Threshold mirrors the advisory pipeline's reference
// behaviour of dropping weakly related documents while keeping recall.
const (
	DefaultSimilarityThreshold = 0.1
	DefaultMaxResults          = 10
)

// SearchRequest configures a similarity query.
type SearchRequest struct {
	// Embedding is the query vector. Length must equal the store dimension.
	Embedding []float32

	// QueryText is the original text, recorded in the query log if set.
	QueryText string

	// Threshold drops results scoring below it. Must be in [-1, 1].
	Threshold float64

	// MaxResults caps the number of returned results. Must be positive.
	MaxResults int

	// DocumentType filters candidates by exact document type.
	DocumentType string

	// Source filters candidates by exact source.
	Source string

	// MetadataFilter keeps only documents whose metadata is a superset
	// of this map.
	MetadataFilter map[string]any

	// Timeout bounds the search. Zero means no deadline beyond the
	// caller's context.
	Timeout time.Duration
}

// NewSearchRequest returns a request for the given embedding with the
// default threshold and result cap.
func NewSearchRequest(embedding []float32) SearchRequest {
	return SearchRequest{
		Embedding:  embedding,
		Threshold:  DefaultSimilarityThreshold,
		MaxResults: DefaultMaxResults,
	}
}

// Validate checks request parameters against the store dimension.
func (r *SearchRequest) Validate(dimension int) error {
	if r.MaxResults <= 0 {
		return ErrInvalidArgument
	}
	if r.Threshold < -1 || r.Threshold > 1 {
		return ErrInvalidArgument
	}
	if len(r.Embedding) != dimension {
		return ErrDimensionMismatch
	}
	return nil
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	// DocID is the matched document's natural key.
	DocID string

	// Title is the document title.
	Title string

	// Content is the full document text.
	Content string

	// Metadata is the document metadata.
	Metadata map[string]any

	// Similarity is the cosine similarity score, in [-1, 1].
	Similarity float64

	// Source is the document source.
	Source string

	// DocumentType is the document type.
	DocumentType string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}
