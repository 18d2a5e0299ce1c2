package driving

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// SearchService provides similarity retrieval to external actors.
type SearchService interface {
	// Search ranks stored documents by cosine similarity to the request
	// embedding, applying structural pre-filters and the similarity
	// threshold. Every completed call appends one query log entry;
	// a timed-out call appends none.
	Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error)
}

// StatsService reports aggregate store statistics.
type StatsService interface {
	// DocumentStats returns store-wide aggregates. Pure read; an empty
	// store yields zero counts and nil timestamps, not an error.
	DocumentStats(ctx context.Context) (*domain.DocumentStats, error)
}
