package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultAppSettings pins the stock defaults.
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "text-embedding-3-large", s.Embedding.Model)
	assert.Equal(t, 3072, s.Embedding.Dimensions)
	assert.Equal(t, "gpt-4o-mini", s.LLM.Model)
	assert.Equal(t, "advisor-index", s.VectorStore.Index)
	assert.Equal(t, "cosine", s.VectorStore.Metric)
	assert.Equal(t, 100, s.VectorStore.BatchSize)
	assert.Equal(t, 1000, s.Chunker.ChunkSize)
	assert.Equal(t, 200, s.Chunker.ChunkOverlap)
	assert.Equal(t, 5, s.Ask.TopK)
	assert.NotEmpty(t, s.Ask.SystemPrompt)

	// Credentials are environment-only and never defaulted.
	assert.Empty(t, s.Embedding.APIKey)
	assert.Empty(t, s.VectorStore.APIKey)
}

// TestSettings_IsConfigured requires credentials before construction.
func TestSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		check    func() bool
		expected bool
	}{
		{
			name:     "embedding without key",
			check:    EmbeddingSettings{Model: "text-embedding-3-large"}.IsConfigured,
			expected: false,
		},
		{
			name:     "embedding with key and model",
			check:    EmbeddingSettings{Model: "text-embedding-3-large", APIKey: "sk-test"}.IsConfigured,
			expected: true,
		},
		{
			name:     "llm without model",
			check:    LLMSettings{APIKey: "sk-test"}.IsConfigured,
			expected: false,
		},
		{
			name:     "vector store with key and index",
			check:    VectorStoreSettings{APIKey: "pc-test", Index: "advisor-index"}.IsConfigured,
			expected: true,
		},
		{
			name:     "vector store without index",
			check:    VectorStoreSettings{APIKey: "pc-test"}.IsConfigured,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.check())
		})
	}
}

// TestEmbeddingDimensions covers the known OpenAI models.
func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()

	assert.Equal(t, 3072, dims["text-embedding-3-large"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 1536, dims["text-embedding-ada-002"])
}

// TestDefaultPipelineConfig chunker runs before annotation.
func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	assert.Equal(t, []string{"chunker", "annotate"}, cfg.Processors)
	chunkerCfg := cfg.GetProcessorConfig("chunker")
	assert.Equal(t, 1000, chunkerCfg["chunk_size"])
	assert.Equal(t, 200, chunkerCfg["overlap"])
	assert.Nil(t, cfg.GetProcessorConfig("missing"))
}
