package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// readEmbedding parses a query or document embedding. The argument is
// either an inline JSON array, a path to a JSON file, or "-" for stdin.
func readEmbedding(arg string, stdin io.Reader) ([]float32, error) {
	if arg == "" {
		return nil, fmt.Errorf("embedding is required")
	}

	var data []byte
	switch {
	case arg == "-":
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading embedding from stdin: %w", err)
		}
	case strings.HasPrefix(strings.TrimSpace(arg), "["):
		data = []byte(arg)
	default:
		var err error
		data, err = os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading embedding file: %w", err)
		}
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		return nil, fmt.Errorf("parsing embedding: %w", err)
	}
	return embedding, nil
}

// readEmbeddings parses a JSON array of embeddings, one per chunk.
func readEmbeddings(arg string, stdin io.Reader) ([][]float32, error) {
	if arg == "" {
		return nil, fmt.Errorf("embeddings are required")
	}

	var data []byte
	switch {
	case arg == "-":
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading embeddings from stdin: %w", err)
		}
	case strings.HasPrefix(strings.TrimSpace(arg), "["):
		data = []byte(arg)
	default:
		var err error
		data, err = os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("reading embeddings file: %w", err)
		}
	}

	var embeddings [][]float32
	if err := json.Unmarshal(data, &embeddings); err != nil {
		return nil, fmt.Errorf("parsing embeddings: %w", err)
	}
	return embeddings, nil
}

// parseMetadata parses an inline JSON object into a metadata map.
func parseMetadata(arg string) (map[string]any, error) {
	if arg == "" {
		return nil, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(arg), &metadata); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	return metadata, nil
}
