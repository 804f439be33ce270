package services

import (
	"fmt"
	"os"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage. Credentials are environment-only and
// deliberately have no key here.
const (
	keyEmbedModel   = "embedding.model"
	keyEmbedDims    = "embedding.dimensions"
	keyLLMModel     = "llm.model"
	keyIndexName    = "pinecone.index"
	keyIndexCloud   = "pinecone.cloud"
	keyIndexRegion  = "pinecone.region"
	keyIndexMetric  = "pinecone.metric"
	keyBatchSize    = "ingest.batch_size"
	keyChunkSize    = "chunker.chunk_size"
	keyChunkOverlap = "chunker.chunk_overlap"
	keyTopK         = "ask.top_k"
	keySystemPrompt = "ask.system_prompt"
	keyCatalogPath  = "catalog.path"
)

// Environment variables. API keys are only ever read from here, and the two
// Pinecone overrides take precedence over the config file.
const (
	envOpenAIKey      = "OPENAI_API_KEY"
	envPineconeKey    = "PINECONE_API_KEY"
	envPineconeIndex  = "PINECONE_INDEX_NAME"
	envPineconeRegion = "PINECONE_ENVIRONMENT"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings: defaults first, then config
// file overrides, then environment credentials.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	settings.Embedding.Model = s.getString(keyEmbedModel, settings.Embedding.Model)
	settings.Embedding.Dimensions = s.getInt(keyEmbedDims, settings.Embedding.Dimensions)
	settings.LLM.Model = s.getString(keyLLMModel, settings.LLM.Model)

	settings.VectorStore.Index = s.getString(keyIndexName, settings.VectorStore.Index)
	settings.VectorStore.Cloud = s.getString(keyIndexCloud, settings.VectorStore.Cloud)
	settings.VectorStore.Region = s.getString(keyIndexRegion, settings.VectorStore.Region)
	settings.VectorStore.Metric = s.getString(keyIndexMetric, settings.VectorStore.Metric)
	settings.VectorStore.BatchSize = s.getInt(keyBatchSize, settings.VectorStore.BatchSize)

	// The index must be created with the same dimension the model emits.
	settings.VectorStore.Dimensions = settings.Embedding.Dimensions

	settings.Chunker.ChunkSize = s.getInt(keyChunkSize, settings.Chunker.ChunkSize)
	settings.Chunker.ChunkOverlap = s.getInt(keyChunkOverlap, settings.Chunker.ChunkOverlap)

	settings.Ask.TopK = s.getInt(keyTopK, settings.Ask.TopK)
	settings.Ask.SystemPrompt = s.getString(keySystemPrompt, settings.Ask.SystemPrompt)

	settings.CatalogPath = s.getString(keyCatalogPath, settings.CatalogPath)

	mergeEnvironment(&settings)

	return &settings, nil
}

// Save persists the non-secret settings. API keys are never written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyEmbedModel:   settings.Embedding.Model,
		keyEmbedDims:    settings.Embedding.Dimensions,
		keyLLMModel:     settings.LLM.Model,
		keyIndexName:    settings.VectorStore.Index,
		keyIndexCloud:   settings.VectorStore.Cloud,
		keyIndexRegion:  settings.VectorStore.Region,
		keyIndexMetric:  settings.VectorStore.Metric,
		keyBatchSize:    settings.VectorStore.BatchSize,
		keyChunkSize:    settings.Chunker.ChunkSize,
		keyChunkOverlap: settings.Chunker.ChunkOverlap,
		keyTopK:         settings.Ask.TopK,
		keySystemPrompt: settings.Ask.SystemPrompt,
	}
	if settings.CatalogPath != "" {
		values[keyCatalogPath] = settings.CatalogPath
	}

	for key, value := range values {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// SetEmbeddingModel updates the embedding model. Dimensions follow the
// model so the index and the vectors cannot drift apart.
func (s *SettingsService) SetEmbeddingModel(model string) error {
	dims, ok := domain.EmbeddingDimensions()[model]
	if !ok {
		return fmt.Errorf("%w: unknown embedding model %q", domain.ErrInvalidInput, model)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Model = model
	settings.Embedding.Dimensions = dims
	settings.VectorStore.Dimensions = dims

	return s.Save(settings)
}

// SetLLMModel updates the chat model.
func (s *SettingsService) SetLLMModel(model string) error {
	if model == "" {
		return fmt.Errorf("%w: llm model must not be empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Model = model

	return s.Save(settings)
}

// SetChunking updates chunk size and overlap.
func (s *SettingsService) SetChunking(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, size)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidInput, size, overlap)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Chunker.ChunkSize = size
	settings.Chunker.ChunkOverlap = overlap

	return s.Save(settings)
}

// SetTopK updates the retrieval depth.
func (s *SettingsService) SetTopK(topK int) error {
	if topK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, topK)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Ask.TopK = topK

	return s.Save(settings)
}

// SetSystemPrompt overrides the grounding prompt.
func (s *SettingsService) SetSystemPrompt(prompt string) error {
	if prompt == "" {
		return fmt.Errorf("%w: system prompt must not be empty", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Ask.SystemPrompt = prompt

	return s.Save(settings)
}

// GetDefaults returns the stock defaults.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks the current settings for internal consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	dims, known := domain.EmbeddingDimensions()[settings.Embedding.Model]
	if !known {
		return fmt.Errorf("unknown embedding model: %s", settings.Embedding.Model)
	}
	if settings.Embedding.Dimensions != dims {
		return fmt.Errorf("%w: model %s produces %d dimensions, settings say %d",
			domain.ErrDimensionMismatch, settings.Embedding.Model, dims, settings.Embedding.Dimensions)
	}

	if settings.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", settings.Chunker.ChunkSize)
	}
	if settings.Chunker.ChunkOverlap < 0 || settings.Chunker.ChunkOverlap >= settings.Chunker.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d",
			settings.Chunker.ChunkOverlap, settings.Chunker.ChunkSize)
	}

	if settings.Ask.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", settings.Ask.TopK)
	}
	if settings.VectorStore.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", settings.VectorStore.BatchSize)
	}
	if settings.VectorStore.Index == "" {
		return fmt.Errorf("index name must not be empty")
	}

	return nil
}

// ValidateEmbeddingConfig validates the current embedding configuration by
// pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the
// provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// mergeEnvironment applies credentials and the Pinecone overrides. Both
// services share the one OpenAI key.
func mergeEnvironment(settings *domain.AppSettings) {
	if key := os.Getenv(envOpenAIKey); key != "" {
		settings.Embedding.APIKey = key
		settings.LLM.APIKey = key
	}
	if key := os.Getenv(envPineconeKey); key != "" {
		settings.VectorStore.APIKey = key
	}
	if index := os.Getenv(envPineconeIndex); index != "" {
		settings.VectorStore.Index = index
	}
	if region := os.Getenv(envPineconeRegion); region != "" {
		settings.VectorStore.Region = region
	}
}
