package domain

import "time"

// QueryLogEntry records one completed search. Entries are append-only
// and immutable; a search that times out is never logged.
type QueryLogEntry struct {
	// ID is the internal surrogate key, assigned by the store.
	ID int64

	// QueryText is the original query text, if the caller supplied one.
	QueryText string

	// Embedding is the query vector.
	Embedding []float32

	// ResultCount is the number of results returned to the caller.
	ResultCount int

	// LatencyMS is the wall-clock search duration in milliseconds.
	LatencyMS int64

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the query completed.
	CreatedAt time.Time
}

// Relevance score bounds for feedback entries.
const (
	MinRelevanceScore = 1
	MaxRelevanceScore = 5
)

// FeedbackEntry is a relevance judgment for one document returned by
// one logged query. Cascades if either parent is deleted.
type FeedbackEntry struct {
	// ID is the internal surrogate key, assigned by the store.
	ID int64

	// QueryLogID references the logged query being judged.
	QueryLogID int64

	// DocumentID references the judged document.
	DocumentID int64

	// RelevanceScore is the judgment, in [MinRelevanceScore, MaxRelevanceScore].
	RelevanceScore int

	// Comment is free-text feedback.
	Comment string

	// UserID identifies the judge.
	UserID string

	// CreatedAt is when the feedback was recorded.
	CreatedAt time.Time
}

// Validate checks the feedback invariants.
func (f *FeedbackEntry) Validate() error {
	if f.RelevanceScore < MinRelevanceScore || f.RelevanceScore > MaxRelevanceScore {
		return ErrValidation
	}
	return nil
}
