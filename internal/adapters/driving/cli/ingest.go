package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
	"github.com/arcadia-labs/corpus-cli/internal/core/ports/driving"
)

var (
	ingestFile         string
	ingestTitle        string
	ingestSource       string
	ingestType         string
	ingestMetadata     string
	ingestEmbedding    string
	ingestOverwrite    bool
	ingestChunkSize    int
	ingestChunkOverlap int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [doc-id]",
	Short: "Ingest a document with its embedding",
	Long: `Stores a document under the given id. Content is read from --file
(or stdin with "-"); the embedding arrives precomputed as a JSON array
via --embedding. Re-ingesting an existing doc-id replaces its content.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "-", "content file path, or - for stdin")
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "document title")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "producing system or feed")
	ingestCmd.Flags().StringVar(&ingestType, "type", "", "document type")
	ingestCmd.Flags().StringVarP(&ingestMetadata, "metadata", "m", "", "metadata as a JSON object")
	ingestCmd.Flags().StringVarP(&ingestEmbedding, "embedding", "e", "", "embedding as a JSON array, file path, or - for stdin")
	ingestCmd.Flags().BoolVar(&ingestOverwrite, "overwrite", false, "replace a document with identical content")
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 0, "split into chunks of at most this many characters")
	ingestCmd.Flags().IntVar(&ingestChunkOverlap, "chunk-overlap", 0, "characters shared across chunk boundaries")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	content, err := readContent(ingestFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	embedding, err := readEmbedding(ingestEmbedding, cmd.InOrStdin())
	if err != nil {
		return err
	}
	metadata, err := parseMetadata(ingestMetadata)
	if err != nil {
		return err
	}

	doc := &domain.Document{
		DocID:        args[0],
		Title:        ingestTitle,
		Content:      content,
		Metadata:     metadata,
		Embedding:    embedding,
		Source:       ingestSource,
		DocumentType: ingestType,
	}

	err = ingestService.Ingest(context.Background(), doc, driving.IngestOptions{
		Overwrite:    ingestOverwrite,
		MaxChunkSize: ingestChunkSize,
		ChunkOverlap: ingestChunkOverlap,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested document %s (%d chars)\n", doc.DocID, len(doc.Content))
	return nil
}

// readContent loads document content from a file or stdin.
func readContent(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading content from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading content file: %w", err)
	}
	return string(data), nil
}
