package driving

import "github.com/quaystone/advisor-cli/internal/core/domain"

// SettingsService manages application settings. Credentials are read from
// the environment and merged in by the service; they are never persisted.
type SettingsService interface {
	// Get retrieves current application settings (defaults, config file
	// overrides, then environment credentials).
	Get() (*domain.AppSettings, error)

	// Save persists the non-secret settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingModel updates the embedding model and its dimensions.
	SetEmbeddingModel(model string) error

	// SetLLMModel updates the chat model.
	SetLLMModel(model string) error

	// SetChunking updates chunk size and overlap.
	SetChunking(size, overlap int) error

	// SetTopK updates the retrieval depth.
	SetTopK(topK int) error

	// SetSystemPrompt overrides the grounding prompt.
	SetSystemPrompt(prompt string) error

	// GetDefaults returns the stock defaults.
	GetDefaults() domain.AppSettings

	// Validate checks the current settings for internal consistency
	// (known model, dimension match, positive sizes).
	Validate() error

	// ValidateEmbeddingConfig pings the embedding provider with the
	// current configuration.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the LLM provider with the current
	// configuration.
	ValidateLLMConfig() error
}
