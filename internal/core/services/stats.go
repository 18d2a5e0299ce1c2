package services

import (
	"context"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService reports aggregate store statistics.
type StatsService struct {
	docStore driven.DocumentStore
}

// NewStatsService creates a new stats service.
func NewStatsService(docStore driven.DocumentStore) *StatsService {
	return &StatsService{docStore: docStore}
}

// DocumentStats returns store-wide aggregates. Pure read; an empty
// store yields zero counts and nil timestamps.
func (s *StatsService) DocumentStats(ctx context.Context) (*domain.DocumentStats, error) {
	return s.docStore.Stats(ctx)
}
