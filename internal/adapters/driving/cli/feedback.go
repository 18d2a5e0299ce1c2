package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	feedbackScore   int
	feedbackComment string
	feedbackUser    string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [query-log-id] [doc-id]",
	Short: "Record relevance feedback for a search result",
	Long: `Stores a relevance judgment (1-5) for a document returned by a
logged query. Use "log recent" to find query log ids.`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

var logRecentLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Inspect the query log",
}

var logRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE:  runLogRecent,
}

func init() {
	feedbackCmd.Flags().IntVarP(&feedbackScore, "score", "s", 0, "relevance score from 1 to 5")
	feedbackCmd.Flags().StringVarP(&feedbackComment, "comment", "c", "", "free-text comment")
	feedbackCmd.Flags().StringVarP(&feedbackUser, "user", "u", "", "user id of the judge")
	rootCmd.AddCommand(feedbackCmd)

	logRecentCmd.Flags().IntVarP(&logRecentLimit, "limit", "n", 20, "maximum number of entries")
	logCmd.AddCommand(logRecentCmd)
	rootCmd.AddCommand(logCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	queryLogID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid query log id %q", args[0])
	}

	err = collectionService.RecordFeedback(context.Background(), queryLogID, args[1],
		feedbackScore, feedbackComment, feedbackUser)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	cmd.Printf("Recorded feedback for document %s (score=%d).\n", args[1], feedbackScore)
	return nil
}

func runLogRecent(cmd *cobra.Command, _ []string) error {
	if queryLogStore == nil {
		return errors.New("query log not configured")
	}

	entries, err := queryLogStore.Recent(context.Background(), logRecentLimit)
	if err != nil {
		return fmt.Errorf("failed to read query log: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No logged queries.")
		return nil
	}

	for _, entry := range entries {
		text := entry.QueryText
		if text == "" {
			text = "(no text)"
		}
		cmd.Printf("  [%d] %s  results=%d  latency=%dms  %s\n",
			entry.ID, text, entry.ResultCount, entry.LatencyMS,
			entry.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	cmd.Printf("Total: %d entries\n", len(entries))
	return nil
}
