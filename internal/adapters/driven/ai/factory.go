// Package ai provides factory functions for creating the remote service
// adapters (embedding, LLM, vector store) from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/quaystone/advisor-cli/internal/adapters/driven/embedding/openai"
	openaillm "github.com/quaystone/advisor-cli/internal/adapters/driven/llm/openai"
	"github.com/quaystone/advisor-cli/internal/adapters/driven/vectorstore/pinecone"
	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult bundles the remote services a command needs.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorStore      driven.VectorStore
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
	if r.VectorStore != nil {
		_ = r.VectorStore.Close()
	}
}

// CreateAndValidateServices builds all three remote services and verifies
// the OpenAI ones are reachable. On any failure, services created so far
// are closed before the error is returned.
func CreateAndValidateServices(settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil {
		return nil, domain.ErrInvalidInput
	}

	result := &InitResult{}

	embedding, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	result.EmbeddingService = embedding

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.LLMService = llm

	store, err := CreateVectorStore(&settings.VectorStore)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorStore = store

	return result, nil
}

// CreateAndValidateEmbeddingService creates the embedding service and
// validates connectivity. Returns the service if successful, or an error
// with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY (see 'advisor init')",
			domain.ErrNotConfigured)
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'advisor settings wizard' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'advisor settings wizard' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates the LLM service and validates
// connectivity. Returns the service if successful, or an error with
// guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY (see 'advisor init')",
			domain.ErrNotConfigured)
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'advisor settings wizard' to fix",
			domain.ErrLLMUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'advisor settings wizard' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating
// a service and pinging it. Intended for the settings wizard, so an
// unconfigured provider passes: there is nothing to check yet.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service
// and pinging it. Intended for the settings wizard, so an unconfigured
// provider passes: there is nothing to check yet.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the OpenAI embedding service from settings
// without validating connectivity.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrNotConfigured
	}

	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// CreateLLMService creates the OpenAI LLM service from settings without
// validating connectivity.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrNotConfigured
	}

	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey: settings.APIKey,
		Model:  settings.Model,
	})
}

// CreateVectorStore creates the Pinecone vector store client from settings.
// No connectivity check is made here: index existence is an explicit
// operation ('advisor index create'), not a side effect of construction.
func CreateVectorStore(settings *domain.VectorStoreSettings) (driven.VectorStore, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: set PINECONE_API_KEY (see 'advisor init')",
			domain.ErrNotConfigured)
	}

	store, err := pinecone.New(pinecone.Config{
		APIKey:    settings.APIKey,
		IndexName: settings.Index,
		Dimension: settings.Dimensions,
		Metric:    settings.Metric,
		Cloud:     settings.Cloud,
		Region:    settings.Region,
		BatchSize: settings.BatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}

	return store, nil
}
