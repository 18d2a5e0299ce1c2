package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Retry policy for timed-out searches. Only domain.ErrTimeout is
// retried; every other failure surfaces immediately.
const (
	searchMaxAttempts      = 3
	searchInitialBackoff   = 50 * time.Millisecond
	searchBackoffMultipler = 2
)

// SearchService ranks stored documents by cosine similarity to a query
// embedding.
type SearchService struct {
	docStore  driven.DocumentStore
	index     driven.VectorIndex
	queryLog  driven.QueryLogStore
	dimension int
}

// NewSearchService creates a new search service. The queryLog may be
// nil, in which case completed searches are not recorded.
func NewSearchService(docStore driven.DocumentStore, index driven.VectorIndex, queryLog driven.QueryLogStore, dimension int) *SearchService {
	if dimension <= 0 {
		dimension = domain.DefaultDimension
	}
	return &SearchService{
		docStore:  docStore,
		index:     index,
		queryLog:  queryLog,
		dimension: dimension,
	}
}

// Search validates the request, applies structural pre-filters, ranks
// candidates by similarity and hydrates full results. Each completed
// call appends one query log entry; timed-out calls append none and are
// retried with exponential backoff.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	if err := req.Validate(s.dimension); err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return nil, fmt.Errorf("query embedding has %d dimensions, store expects %d: %w",
				len(req.Embedding), s.dimension, err)
		}
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	backoff := searchInitialBackoff
	var lastErr error
	for attempt := 1; attempt <= searchMaxAttempts; attempt++ {
		results, err := s.searchOnce(ctx, req)
		if err == nil {
			return results, nil
		}
		if !errors.Is(err, domain.ErrTimeout) {
			return nil, err
		}
		lastErr = err

		if attempt < searchMaxAttempts {
			logger.Warn("Search timed out (attempt %d/%d), retrying in %v", attempt, searchMaxAttempts, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("search cancelled: %w", domain.ErrTimeout)
			}
			backoff *= searchBackoffMultipler
		}
	}
	return nil, lastErr
}

// searchOnce runs a single search attempt.
func (s *SearchService) searchOnce(ctx context.Context, req domain.SearchRequest) ([]domain.SearchResult, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}
	started := time.Now()

	// Structural pre-filter: resolve the allow-set before ranking so
	// filtered-out candidates do not consume the result budget.
	allow, candidates, err := s.prefilter(ctx, req)
	if err != nil {
		return nil, s.mapTimeout(ctx, err)
	}

	byID := make(map[int64]domain.Document, len(candidates))
	for _, doc := range candidates {
		byID[doc.ID] = doc
	}

	hits, err := s.index.Search(ctx, req.Embedding, req.MaxResults, allow)
	if err != nil {
		return nil, s.mapTimeout(ctx, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < req.Threshold {
			continue
		}
		doc, ok := byID[hit.ID]
		if !ok {
			continue
		}
		results = append(results, domain.SearchResult{
			DocID:        doc.DocID,
			Title:        doc.Title,
			Content:      doc.Content,
			Metadata:     doc.Metadata,
			Similarity:   hit.Similarity,
			Source:       doc.Source,
			DocumentType: doc.DocumentType,
			CreatedAt:    doc.CreatedAt,
		})
	}

	// A query whose deadline expired mid-flight counts as timed out even
	// when ranking finished; it must leave no log entry.
	if err := ctx.Err(); err != nil {
		return nil, s.mapTimeout(ctx, err)
	}

	latency := time.Since(started)
	if s.queryLog != nil {
		entry := &domain.QueryLogEntry{
			QueryText:   req.QueryText,
			Embedding:   req.Embedding,
			ResultCount: len(results),
			LatencyMS:   latency.Milliseconds(),
		}
		if err := s.queryLog.Append(ctx, entry); err != nil {
			// Telemetry must not fail the search.
			logger.Warn("Failed to record query log entry: %v", err)
		}
	}

	logger.Debug("Search returned %d results in %v", len(results), latency)
	return results, nil
}

// prefilter resolves the structural filters into an allow predicate
// over internal document ids. Chunk vectors are indexed under negated
// ids, so the positive-id allow-set also keeps them out of document
// searches.
func (s *SearchService) prefilter(ctx context.Context, req domain.SearchRequest) (func(int64) bool, []domain.Document, error) {
	filter := domain.DocumentFilter{
		DocumentType: req.DocumentType,
		Source:       req.Source,
		Metadata:     req.MetadataFilter,
	}
	docs, err := s.docStore.ListDocuments(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving pre-filter: %w", err)
	}

	allowed := make(map[int64]struct{}, len(docs))
	for _, doc := range docs {
		allowed[doc.ID] = struct{}{}
	}
	allow := func(id int64) bool {
		_, ok := allowed[id]
		return ok
	}
	return allow, docs, nil
}

// mapTimeout converts context deadline expiry into the retryable
// timeout sentinel.
func (s *SearchService) mapTimeout(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("search timed out: %w", domain.ErrTimeout)
	}
	return err
}
