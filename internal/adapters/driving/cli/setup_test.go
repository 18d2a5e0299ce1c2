package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/arcadia-labs/corpus-cli/internal/adapters/driven/storage/memory"
	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
	"github.com/arcadia-labs/corpus-cli/internal/core/services"
	"github.com/arcadia-labs/corpus-cli/internal/index/bruteforce"
)

const testDimension = 3

// setupTestServices wires the commands to in-memory adapters and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldSearch := searchService
	oldStats := statsService
	oldCollection := collectionService
	oldLog := queryLogStore

	docs := memory.NewDocumentStore()
	index, err := bruteforce.New(testDimension)
	if err != nil {
		panic(err)
	}
	log := memory.NewQueryLogStore()

	ingestService = services.NewIngestService(docs, index, testDimension)
	searchService = services.NewSearchService(docs, index, log, testDimension)
	statsService = services.NewStatsService(docs)
	collectionService = services.NewCollectionService(docs, memory.NewCollectionStore(docs), memory.NewFeedbackStore(log, docs))
	queryLogStore = log

	return func() {
		index.Close() //nolint:errcheck
		ingestService = oldIngest
		searchService = oldSearch
		statsService = oldStats
		collectionService = oldCollection
		queryLogStore = oldLog
	}
}

// resetFlags restores every flag in the command tree to its default.
// Flag values are bound to package-level vars and would otherwise leak
// from one Execute call into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			f.Value.Set(f.DefValue) //nolint:errcheck
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with the given args and returns its
// combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// newStdin builds an input buffer for commands that read stdin.
func newStdin(content string) *bytes.Buffer {
	return bytes.NewBufferString(content)
}

// ingestTestDoc stores a document through the wired ingest service.
func ingestTestDoc(t *testing.T, docID, content string, embedding []float32) {
	t.Helper()
	doc := &domain.Document{DocID: docID, Content: content, Embedding: embedding}
	require.NoError(t, ingestService.Ingest(context.Background(), doc, driving.IngestOptions{}))
}
