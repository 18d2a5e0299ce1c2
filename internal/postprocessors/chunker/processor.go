// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"github.com/google/uuid"

	"github.com/arcadia-labs/corpus-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into fixed-size overlapping chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split decomposes the document content into chunks with a contiguous
// 0-based order. The last `overlap` characters of each chunk reappear
// at the start of the next; the first chunk records an overlap of 0.
// Splitting is deterministic: the same content, size and overlap always
// produce the same chunk boundaries.
func (p *Processor) Split(doc *domain.Document) []domain.Chunk {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil
	}

	content := doc.Content
	contentLen := len(content)

	// Estimate number of chunks
	step := p.chunkSize - p.overlap
	estimatedChunks := (contentLen / step) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	order := 0
	start := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		overlap := p.overlap
		if order == 0 {
			overlap = 0
		}

		chunks = append(chunks, domain.Chunk{
			ChunkID:    uuid.New().String(),
			DocumentID: doc.ID,
			Content:    content[start:end],
			Order:      order,
			Overlap:    overlap,
			Metadata:   make(map[string]any),
		})
		order++

		if end == contentLen {
			break
		}

		// Move start forward by (chunkSize - overlap)
		start += step
	}

	return chunks
}
