package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `Get, list, update, delete and chunk stored documents.`,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var (
	documentListType     string
	documentListSource   string
	documentListMetadata string
)

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes a document together with its chunks, collection memberships and feedback.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var (
	documentUpdateTitle     string
	documentUpdateContent   string
	documentUpdateMetadata  string
	documentUpdateEmbedding string
	documentUpdateSource    string
	documentUpdateType      string
)

var documentUpdateCmd = &cobra.Command{
	Use:   "update [doc-id]",
	Short: "Update document fields",
	Long:  `Applies a partial update. Only the flags you pass are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentUpdate,
}

var (
	documentSplitSize    int
	documentSplitOverlap int
)

var documentSplitCmd = &cobra.Command{
	Use:   "split [doc-id]",
	Short: "Split a document into chunks",
	Long:  `Decomposes a stored document into ordered overlapping chunks, replacing any previous decomposition.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSplit,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "List a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentEmbedChunksCmd = &cobra.Command{
	Use:   "embed-chunks [doc-id] [embeddings]",
	Short: "Attach embeddings to a document's chunks",
	Long: `Attaches externally computed embeddings to a document's chunks, one
per chunk in order. The embeddings argument is a JSON array of arrays,
a file path, or - for stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: runDocumentEmbedChunks,
}

func init() {
	documentListCmd.Flags().StringVar(&documentListType, "type", "", "filter by document type")
	documentListCmd.Flags().StringVar(&documentListSource, "source", "", "filter by source")
	documentListCmd.Flags().StringVarP(&documentListMetadata, "metadata", "m", "", "metadata filter as a JSON object")

	documentUpdateCmd.Flags().StringVarP(&documentUpdateTitle, "title", "t", "", "new title")
	documentUpdateCmd.Flags().StringVar(&documentUpdateContent, "content", "", "new content")
	documentUpdateCmd.Flags().StringVarP(&documentUpdateMetadata, "metadata", "m", "", "new metadata as a JSON object")
	documentUpdateCmd.Flags().StringVarP(&documentUpdateEmbedding, "embedding", "e", "", "new embedding as a JSON array, file path, or - for stdin")
	documentUpdateCmd.Flags().StringVar(&documentUpdateSource, "source", "", "new source")
	documentUpdateCmd.Flags().StringVar(&documentUpdateType, "type", "", "new document type")

	documentSplitCmd.Flags().IntVar(&documentSplitSize, "chunk-size", 512, "maximum chunk size in characters")
	documentSplitCmd.Flags().IntVar(&documentSplitOverlap, "chunk-overlap", 64, "characters shared across chunk boundaries")

	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentUpdateCmd)
	documentCmd.AddCommand(documentSplitCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentEmbedChunksCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	doc, err := ingestService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.DocID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Source:   %s\n", doc.Source)
	cmd.Printf("  Type:     %s\n", doc.DocumentType)
	cmd.Printf("  Length:   %d chars\n", len(doc.Content))
	cmd.Printf("  Hash:     %s\n", doc.ContentHash)
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(doc.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range doc.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	metadata, err := parseMetadata(documentListMetadata)
	if err != nil {
		return err
	}

	docs, err := ingestService.List(context.Background(), domain.DocumentFilter{
		DocumentType: documentListType,
		Source:       documentListSource,
		Metadata:     metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].DocID)
		if docs[i].Title != "" {
			cmd.Printf("    Title: %s\n", docs[i].Title)
		}
		if docs[i].DocumentType != "" {
			cmd.Printf("    Type: %s\n", docs[i].DocumentType)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	doc, err := ingestService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if err := ingestService.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s.\n", args[0])
	return nil
}

func runDocumentUpdate(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var update domain.DocumentUpdate
	if cmd.Flags().Changed("title") {
		update.Title = &documentUpdateTitle
	}
	if cmd.Flags().Changed("content") {
		update.Content = &documentUpdateContent
	}
	if cmd.Flags().Changed("source") {
		update.Source = &documentUpdateSource
	}
	if cmd.Flags().Changed("type") {
		update.DocumentType = &documentUpdateType
	}
	if documentUpdateMetadata != "" {
		metadata, err := parseMetadata(documentUpdateMetadata)
		if err != nil {
			return err
		}
		update.Metadata = metadata
	}
	if documentUpdateEmbedding != "" {
		embedding, err := readEmbedding(documentUpdateEmbedding, cmd.InOrStdin())
		if err != nil {
			return err
		}
		update.Embedding = embedding
	}

	doc, err := ingestService.Update(context.Background(), args[0], update)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	cmd.Printf("Updated document %s (updated at %s).\n", doc.DocID, doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentSplit(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	chunks, err := ingestService.Split(context.Background(), args[0], documentSplitSize, documentSplitOverlap)
	if err != nil {
		return fmt.Errorf("failed to split document: %w", err)
	}

	cmd.Printf("Split document %s into %d chunks.\n", args[0], len(chunks))
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	chunks, err := ingestService.Chunks(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks found.")
		return nil
	}

	for _, chunk := range chunks {
		embedded := "no"
		if len(chunk.Embedding) > 0 {
			embedded = "yes"
		}
		cmd.Printf("  [%d] %s (%d chars, overlap %d, embedded: %s)\n",
			chunk.Order, chunk.ChunkID, len(chunk.Content), chunk.Overlap, embedded)
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runDocumentEmbedChunks(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	embeddings, err := readEmbeddings(args[1], cmd.InOrStdin())
	if err != nil {
		return err
	}

	if err := ingestService.SetChunkEmbeddings(context.Background(), args[0], embeddings); err != nil {
		return fmt.Errorf("failed to attach chunk embeddings: %w", err)
	}

	cmd.Printf("Attached %d chunk embeddings to document %s.\n", len(embeddings), args[0])
	return nil
}
