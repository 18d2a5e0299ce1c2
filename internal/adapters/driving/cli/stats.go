package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	stats, err := statsService.DocumentStats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println("Store statistics:")
	cmd.Println()
	cmd.Printf("  Documents:        %d\n", stats.TotalDocuments)
	cmd.Printf("  Chunks:           %d\n", stats.TotalChunks)
	cmd.Printf("  Avg length:       %.1f chars\n", stats.AvgContentLength)
	cmd.Printf("  Distinct sources: %d\n", stats.DistinctSources)
	cmd.Printf("  Distinct types:   %d\n", stats.DistinctTypes)
	if stats.OldestDocument != nil {
		cmd.Printf("  Oldest:           %s\n", stats.OldestDocument.Format("2006-01-02 15:04:05"))
	}
	if stats.NewestDocument != nil {
		cmd.Printf("  Newest:           %s\n", stats.NewestDocument.Format("2006-01-02 15:04:05"))
	}
	return nil
}
