package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Validate(t *testing.T) {
	valid := Document{
		DocID:     "doc-1",
		Title:     "Diversification Basics",
		Content:   "Portfolio diversification reduces unsystematic risk.",
		Embedding: make([]float32, 4),
	}

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr error
	}{
		{
			name:   "valid document",
			mutate: func(*Document) {},
		},
		{
			name:    "empty content",
			mutate:  func(d *Document) { d.Content = "" },
			wantErr: ErrValidation,
		},
		{
			name:    "whitespace-only content",
			mutate:  func(d *Document) { d.Content = "  \n\t " },
			wantErr: ErrValidation,
		},
		{
			name:    "missing doc id",
			mutate:  func(d *Document) { d.DocID = "" },
			wantErr: ErrValidation,
		},
		{
			name:    "wrong embedding dimension",
			mutate:  func(d *Document) { d.Embedding = make([]float32, 3) },
			wantErr: ErrDimensionMismatch,
		},
		{
			name:    "nil embedding",
			mutate:  func(d *Document) { d.Embedding = nil },
			wantErr: ErrDimensionMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := valid
			tt.mutate(&doc)
			err := doc.Validate(4)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHashContent_NormalisesWhitespaceAndCase(t *testing.T) {
	a := HashContent("Rebalance  quarterly\nto stay on target.")
	b := HashContent("rebalance quarterly to stay on target.")
	c := HashContent("Rebalance monthly to stay on target.")

	assert.Equal(t, a, b, "formatting-only variants must collide")
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64) // hex-encoded SHA-256
}

func TestDocumentUpdate_Empty(t *testing.T) {
	assert.True(t, DocumentUpdate{}.Empty())

	title := "New Title"
	assert.False(t, DocumentUpdate{Title: &title}.Empty())
	assert.False(t, DocumentUpdate{Metadata: map[string]any{}}.Empty())
	assert.False(t, DocumentUpdate{Embedding: []float32{1}}.Empty())
}

func TestChunk_Fields(t *testing.T) {
	chunk := Chunk{
		ChunkID:    "chunk-1",
		DocumentID: 7,
		Content:    "first segment",
		Order:      0,
		Overlap:    20,
		Metadata:   map[string]any{"section": "intro"},
	}

	require.Equal(t, int64(7), chunk.DocumentID)
	assert.Equal(t, 0, chunk.Order)
	assert.Equal(t, 20, chunk.Overlap)
	assert.Equal(t, "intro", chunk.Metadata["section"])
}

func TestFeedbackEntry_Validate(t *testing.T) {
	for score := MinRelevanceScore; score <= MaxRelevanceScore; score++ {
		fb := FeedbackEntry{QueryLogID: 1, DocumentID: 1, RelevanceScore: score}
		assert.NoError(t, fb.Validate(), "score %d should be valid", score)
	}

	for _, score := range []int{0, -1, 6, 100} {
		fb := FeedbackEntry{QueryLogID: 1, DocumentID: 1, RelevanceScore: score}
		assert.ErrorIs(t, fb.Validate(), ErrValidation, "score %d", score)
	}
}

func TestDomainErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation, ErrInvalidArgument,
		ErrDuplicateContent, ErrDimensionMismatch, ErrTimeout, ErrIndexUnavailable,
	}
	for i, a := range errs {
		for j, b := range errs {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestDocumentStats_EmptyStoreShape(t *testing.T) {
	var stats DocumentStats
	assert.Zero(t, stats.TotalDocuments)
	assert.Zero(t, stats.TotalChunks)
	assert.Nil(t, stats.OldestDocument)
	assert.Nil(t, stats.NewestDocument)

	now := time.Now()
	stats.OldestDocument = &now
	require.NotNil(t, stats.OldestDocument)
}
