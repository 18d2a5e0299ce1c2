package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

var (
	searchEmbedding string
	searchQueryText string
	searchThreshold float64
	searchLimit     int
	searchType      string
	searchSource    string
	searchMetadata  string
	searchTimeout   time.Duration
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search documents by embedding similarity",
	Long: `Ranks stored documents by cosine similarity to a query embedding.
Structural filters (type, source, metadata) narrow the candidates before
ranking, so they never consume the result budget.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchEmbedding, "embedding", "e", "", "query embedding as a JSON array, file path, or - for stdin")
	searchCmd.Flags().StringVarP(&searchQueryText, "query-text", "q", "", "original query text, recorded in the query log")
	searchCmd.Flags().Float64Var(&searchThreshold, "threshold", domain.DefaultSimilarityThreshold, "minimum similarity score")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultMaxResults, "maximum number of results")
	searchCmd.Flags().StringVar(&searchType, "type", "", "filter by document type")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "filter by source")
	searchCmd.Flags().StringVarP(&searchMetadata, "metadata", "m", "", "metadata filter as a JSON object")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "search deadline (0 means none)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	embedding, err := readEmbedding(searchEmbedding, cmd.InOrStdin())
	if err != nil {
		return err
	}
	metadata, err := parseMetadata(searchMetadata)
	if err != nil {
		return err
	}

	req := domain.SearchRequest{
		Embedding:      embedding,
		QueryText:      searchQueryText,
		Threshold:      searchThreshold,
		MaxResults:     searchLimit,
		DocumentType:   searchType,
		Source:         searchSource,
		MetadataFilter: metadata,
		Timeout:        searchTimeout,
	}

	results, err := searchService.Search(context.Background(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].DocID
		}

		cmd.Printf("  [%d] %s (%.4f)\n", i+1, title, results[i].Similarity)
		cmd.Printf("      ID: %s\n", results[i].DocID)
		if results[i].Source != "" {
			cmd.Printf("      Source: %s\n", results[i].Source)
		}
		if results[i].DocumentType != "" {
			cmd.Printf("      Type: %s\n", results[i].DocumentType)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d results\n", len(results))
	return nil
}
