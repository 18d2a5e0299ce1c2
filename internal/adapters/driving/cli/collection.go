package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage document collections",
	Long:  `Create collections and manage document memberships.`,
}

var (
	collectionDescription string
	collectionMetadata    string
)

var collectionCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

var collectionAddCmd = &cobra.Command{
	Use:   "add [name] [doc-id]",
	Short: "Add a document to a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionAdd,
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove [name] [doc-id]",
	Short: "Remove a document from a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionRemove,
}

var collectionDocumentsCmd = &cobra.Command{
	Use:   "documents [name]",
	Short: "List the documents in a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionDocuments,
}

func init() {
	collectionCreateCmd.Flags().StringVarP(&collectionDescription, "description", "d", "", "collection description")
	collectionCreateCmd.Flags().StringVarP(&collectionMetadata, "metadata", "m", "", "metadata as a JSON object")

	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCmd.AddCommand(collectionListCmd)
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionRemoveCmd)
	collectionCmd.AddCommand(collectionDocumentsCmd)
	rootCmd.AddCommand(collectionCmd)
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	metadata, err := parseMetadata(collectionMetadata)
	if err != nil {
		return err
	}

	collection, err := collectionService.Create(context.Background(), args[0], collectionDescription, metadata)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	cmd.Printf("Created collection %s (id=%d).\n", collection.Name, collection.ID)
	return nil
}

func runCollectionList(cmd *cobra.Command, _ []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	collections, err := collectionService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(collections) == 0 {
		cmd.Println("No collections found.")
		return nil
	}

	for i := range collections {
		cmd.Printf("  %s\n", collections[i].Name)
		if collections[i].Description != "" {
			cmd.Printf("    %s\n", collections[i].Description)
		}
	}
	cmd.Printf("Total: %d collections\n", len(collections))
	return nil
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.AddDocument(context.Background(), args[1], args[0]); err != nil {
		return fmt.Errorf("failed to add document to collection: %w", err)
	}

	cmd.Printf("Added document %s to collection %s.\n", args[1], args[0])
	return nil
}

func runCollectionRemove(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	if err := collectionService.RemoveDocument(context.Background(), args[1], args[0]); err != nil {
		return fmt.Errorf("failed to remove document from collection: %w", err)
	}

	cmd.Printf("Removed document %s from collection %s.\n", args[1], args[0])
	return nil
}

func runCollectionDocuments(cmd *cobra.Command, args []string) error {
	if collectionService == nil {
		return errors.New("collection service not configured")
	}

	docs, err := collectionService.Documents(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list collection documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in collection.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].DocID)
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}
