package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassage_Fields(t *testing.T) {
	passage := Passage{
		Title:   "Enrolment Guide",
		URL:     "https://university.example/enrol",
		Content: "Enrolment opens on 1 September.",
		Score:   0.92,
	}

	assert.Equal(t, "Enrolment Guide", passage.Title)
	assert.Equal(t, "https://university.example/enrol", passage.URL)
	assert.Equal(t, "Enrolment opens on 1 September.", passage.Content)
	assert.InDelta(t, 0.92, passage.Score, 1e-6)
}

func TestAnswer_WithSources(t *testing.T) {
	answer := Answer{
		Text: "Enrolment opens in September.",
		Sources: []Passage{
			{Title: "Enrolment Guide", Score: 0.92},
			{Title: "Academic Calendar", Score: 0.85},
		},
	}

	assert.Equal(t, "Enrolment opens in September.", answer.Text)
	assert.Len(t, answer.Sources, 2)
	assert.GreaterOrEqual(t, answer.Sources[0].Score, answer.Sources[1].Score)
}

func TestMatch_Metadata(t *testing.T) {
	match := Match{
		ID:    "chunk-1",
		Score: 0.88,
		Metadata: map[string]string{
			"title":     "Housing FAQ",
			"sourceUrl": "https://university.example/housing",
		},
	}

	assert.Equal(t, "chunk-1", match.ID)
	assert.Equal(t, "Housing FAQ", match.Metadata["title"])
}

func TestVector_Fields(t *testing.T) {
	vector := Vector{
		ID:       "doc-1_0",
		Values:   []float32{0.1, 0.2, 0.3},
		Metadata: map[string]string{"chunkIndex": "0"},
	}

	assert.Equal(t, "doc-1_0", vector.ID)
	assert.Len(t, vector.Values, 3)
	assert.Equal(t, "0", vector.Metadata["chunkIndex"])
}

func TestIndexStats_Ready(t *testing.T) {
	tests := []struct {
		name  string
		stats IndexStats
		want  bool
	}{
		{name: "populated index", stats: IndexStats{VectorCount: 128, Dimension: 3072}, want: true},
		{name: "single vector", stats: IndexStats{VectorCount: 1, Dimension: 3072}, want: true},
		{name: "empty index", stats: IndexStats{VectorCount: 0, Dimension: 3072}, want: false},
		{name: "zero value", stats: IndexStats{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.Ready())
		})
	}
}
