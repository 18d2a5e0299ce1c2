// Package cli implements the command-line driving adapter.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/config/file"
	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/storage/sqlite"
	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driven"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/core/services"
	"github.com/arcadia-labs/corpus-cli/internal/index/bruteforce"
	"github.com/arcadia-labs/corpus-cli/internal/index/ivf"
	"github.com/arcadia-labs/corpus-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Set by Initialize, or directly by tests.
var (
	ingestService     driving.IngestService
	searchService     driving.SearchService
	statsService      driving.StatsService
	collectionService driving.CollectionService
	queryLogStore     driven.QueryLogStore
	configStore       driven.ConfigStore
)

// Resources owned by Initialize, released by Shutdown.
var (
	store       *sqlite.Store
	vectorIndex driven.VectorIndex
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Vector-indexed document store",
	Long: `corpus is a local document store with similarity retrieval.
Documents arrive with precomputed embeddings, are deduplicated by
content hash, and are searchable by cosine similarity with structural
filters.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Initialize wires the real adapters and services. An empty configDir
// uses the default ~/.corpus location.
func Initialize(configDir string) error {
	cfg, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = cfg

	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err = sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	vectorIndex, err = newIndex(settings)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	docStore := store.DocumentStore()
	queryLogStore = store.QueryLogStore()

	if err := loadIndex(context.Background(), docStore, vectorIndex); err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	ingestService = services.NewIngestService(docStore, vectorIndex, settings.Dimension)
	searchService = services.NewSearchService(docStore, vectorIndex, queryLogStore, settings.Dimension)
	statsService = services.NewStatsService(docStore)
	collectionService = services.NewCollectionService(docStore, store.CollectionStore(), store.FeedbackStore())

	return nil
}

// Shutdown releases resources acquired by Initialize.
func Shutdown() {
	if vectorIndex != nil {
		vectorIndex.Close() //nolint:errcheck
		vectorIndex = nil
	}
	if store != nil {
		store.Close() //nolint:errcheck
		store = nil
	}
}

// newIndex builds the configured vector index backend.
func newIndex(settings domain.Settings) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.IndexBackendBruteForce:
		return bruteforce.New(settings.Dimension)
	case domain.IndexBackendIVF:
		return ivf.New(ivf.Config{
			Dimension:       settings.Dimension,
			NLists:          settings.NLists,
			NProbe:          settings.NProbe,
			RetrainInterval: settings.RetrainInterval,
		})
	default:
		return nil, fmt.Errorf("unknown index backend %q: %w", settings.Backend, domain.ErrInvalidArgument)
	}
}

// loadIndex rebuilds the in-memory index from the store: document
// vectors under their internal ids, chunk vectors under negated ids.
func loadIndex(ctx context.Context, docStore driven.DocumentStore, index driven.VectorIndex) error {
	docs, err := docStore.ListDocuments(ctx, domain.DocumentFilter{})
	if err != nil {
		return err
	}
	for n := range docs {
		if err := index.Add(ctx, docs[n].ID, docs[n].Embedding); err != nil {
			return err
		}
		chunks, err := docStore.GetChunks(ctx, docs[n].ID)
		if err != nil {
			return err
		}
		for _, chunk := range chunks {
			if len(chunk.Embedding) == 0 {
				continue
			}
			if err := index.Add(ctx, -chunk.ID, chunk.Embedding); err != nil {
				return err
			}
		}
	}
	logger.Debug("Loaded %d vectors into the index", index.Len())
	return nil
}
