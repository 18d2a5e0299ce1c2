package domain

import "time"

// DocumentStats is the aggregate report over the whole store.
// On an empty store all counts are zero and the timestamps are nil.
type DocumentStats struct {
	// TotalDocuments is the number of stored documents.
	TotalDocuments int64

	// TotalChunks is the number of stored chunks across all documents.
	TotalChunks int64

	// AvgContentLength is the mean document content length in characters.
	AvgContentLength float64

	// DistinctSources is the number of distinct document sources.
	DistinctSources int64

	// DistinctTypes is the number of distinct document types.
	DistinctTypes int64

	// OldestDocument / NewestDocument bound the CreatedAt range.
	// Nil when the store is empty.
	OldestDocument *time.Time
	NewestDocument *time.Time
}
