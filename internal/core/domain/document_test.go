package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestChunk_NewText strips the overlap prefix.
func TestChunk_NewText(t *testing.T) {
	tests := []struct {
		name     string
		chunk    Chunk
		expected string
	}{
		{
			name:     "no overlap returns full content",
			chunk:    Chunk{Content: "hello world"},
			expected: "hello world",
		},
		{
			name:     "overlap prefix stripped",
			chunk:    Chunk{Content: "world again", Overlap: 6},
			expected: "again",
		},
		{
			name:     "overlap equal to length yields empty",
			chunk:    Chunk{Content: "abc", Overlap: 3},
			expected: "",
		},
		{
			name:     "overlap beyond length returns full content",
			chunk:    Chunk{Content: "abc", Overlap: 7},
			expected: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.chunk.NewText())
		})
	}
}

// TestIndexStats_ReadyRequiresVector requires at least one stored vector.
func TestIndexStats_ReadyRequiresVector(t *testing.T) {
	assert.False(t, IndexStats{VectorCount: 0, Dimension: 3072}.Ready())
	assert.True(t, IndexStats{VectorCount: 1, Dimension: 3072}.Ready())
}

// TestIngestReport_Add counts outcomes by status.
func TestIngestReport_Add(t *testing.T) {
	var r IngestReport

	r.Add(IngestResult{URL: "https://a.example", Status: IngestProcessed, ChunkCount: 4})
	r.Add(IngestResult{URL: "https://b.example", Status: IngestProcessed, ChunkCount: 2})
	r.Add(IngestResult{URL: "https://c.example", Status: IngestSkipped})

	assert.Equal(t, 2, r.Processed)
	assert.Equal(t, 1, r.Skipped)
	assert.Equal(t, 0, r.Failed)
	assert.Len(t, r.Results, 3)
	assert.False(t, r.AllFailed())
}

// TestIngestReport_AllFailed is true only when every result failed.
func TestIngestReport_AllFailed(t *testing.T) {
	var empty IngestReport
	assert.False(t, empty.AllFailed())

	var r IngestReport
	r.Add(IngestResult{URL: "https://a.example", Status: IngestFailed})
	r.Add(IngestResult{URL: "https://b.example", Status: IngestFailed})
	assert.True(t, r.AllFailed())

	r.Add(IngestResult{URL: "https://c.example", Status: IngestProcessed})
	assert.False(t, r.AllFailed())
}
