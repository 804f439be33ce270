package domain

// DefaultSystemPrompt grounds the LLM in retrieved context. Operators can
// override it via the ask.system_prompt setting.
const DefaultSystemPrompt = `You are a helpful campus advisor. Answer the question using only the provided context. If the context does not contain the answer, say you don't know rather than guessing. Keep answers concise and cite the source documents you relied on.`

// EmbeddingSettings holds embedding service configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// Dimensions is the vector size the model produces. Must match the
	// vector index dimension.
	Dimensions int

	// APIKey is the OpenAI API key (from the environment).
	APIKey string
}

// IsConfigured returns true if the embedding service can be constructed.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.APIKey != "" && e.Model != ""
}

// LLMSettings holds LLM configuration.
type LLMSettings struct {
	// Model is the chat model name.
	Model string

	// APIKey is the OpenAI API key (from the environment).
	APIKey string
}

// IsConfigured returns true if the LLM service can be constructed.
func (l LLMSettings) IsConfigured() bool {
	return l.APIKey != "" && l.Model != ""
}

// VectorStoreSettings holds the hosted vector index configuration.
type VectorStoreSettings struct {
	// APIKey is the Pinecone API key (from the environment).
	APIKey string

	// Index is the index name.
	Index string

	// Cloud and Region place the serverless index.
	Cloud  string
	Region string

	// Metric is the similarity metric; cosine unless overridden.
	Metric string

	// Dimensions is the index vector dimension.
	Dimensions int

	// BatchSize caps vectors per upsert call.
	BatchSize int
}

// IsConfigured returns true if the vector store client can be constructed.
func (v VectorStoreSettings) IsConfigured() bool {
	return v.APIKey != "" && v.Index != ""
}

// ChunkerSettings holds text splitting configuration.
type ChunkerSettings struct {
	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int

	// ChunkOverlap is the prefix carried over from the previous chunk.
	ChunkOverlap int
}

// AskSettings holds answer composition configuration.
type AskSettings struct {
	// TopK is how many passages to retrieve per question.
	TopK int

	// SystemPrompt grounds the LLM; DefaultSystemPrompt unless overridden.
	SystemPrompt string
}

// AppSettings holds all application settings. Credentials come from the
// environment; everything else from the config store with these defaults.
type AppSettings struct {
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
	Chunker     ChunkerSettings
	Ask         AskSettings

	// CatalogPath is where the processing catalog lives.
	CatalogPath string
}

// DefaultAppSettings returns settings with the stock defaults. API keys are
// left empty: they are environment-only and never persisted.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Model:      "text-embedding-3-large",
			Dimensions: 3072,
		},
		LLM: LLMSettings{
			Model: "gpt-4o-mini",
		},
		VectorStore: VectorStoreSettings{
			Index:      "advisor-index",
			Cloud:      "aws",
			Region:     "us-east-1",
			Metric:     "cosine",
			Dimensions: 3072,
			BatchSize:  100,
		},
		Chunker: ChunkerSettings{
			ChunkSize:    1000,
			ChunkOverlap: 200,
		},
		Ask: AskSettings{
			TopK:         5,
			SystemPrompt: DefaultSystemPrompt,
		},
	}
}

// PipelineConfig returns the post-processor pipeline configuration these
// settings describe: the default processors with the configured chunking.
func (s AppSettings) PipelineConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	cfg.ProcessorConfigs["chunker"] = map[string]any{
		"chunk_size": s.Chunker.ChunkSize,
		"overlap":    s.Chunker.ChunkOverlap,
	}
	return cfg
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration:
// split into chunks, then stamp source attribution onto each one.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker", "annotate"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": 1000,
				"overlap":    200,
			},
		},
	}
}
