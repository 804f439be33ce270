package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure models, chunking, retrieval, and other options.

Credentials are never stored: OPENAI_API_KEY and PINECONE_API_KEY are read
from the environment (or a .env file) on every run.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set one configuration value. Settable keys:

  embedding.model        embedding model (dimensions follow the model)
  llm.model              chat model
  chunker.chunk_size     maximum chunk length in bytes
  chunker.chunk_overlap  bytes carried over between chunks
  ask.top_k              passages retrieved per question
  ask.system_prompt      grounding prompt for the LLM`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Model:      %s\n", settings.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Printf("  API key:    %s\n", describeKey(settings.Embedding.APIKey))
	cmd.Printf("  Status:     %s\n", describeConfigured(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Model:   %s\n", settings.LLM.Model)
	cmd.Printf("  API key: %s\n", describeKey(settings.LLM.APIKey))
	cmd.Printf("  Status:  %s\n", describeConfigured(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Vector index]")
	cmd.Printf("  Index:      %s\n", settings.VectorStore.Index)
	cmd.Printf("  Cloud:      %s\n", settings.VectorStore.Cloud)
	cmd.Printf("  Region:     %s\n", settings.VectorStore.Region)
	cmd.Printf("  Metric:     %s\n", settings.VectorStore.Metric)
	cmd.Printf("  Dimensions: %d\n", settings.VectorStore.Dimensions)
	cmd.Printf("  Batch size: %d\n", settings.VectorStore.BatchSize)
	cmd.Printf("  API key:    %s\n", describeKey(settings.VectorStore.APIKey))
	cmd.Printf("  Status:     %s\n", describeConfigured(settings.VectorStore.IsConfigured()))
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Chunk size:    %d\n", settings.Chunker.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.Chunker.ChunkOverlap)
	cmd.Println()

	cmd.Println("[Ask]")
	cmd.Printf("  Top K:         %d\n", settings.Ask.TopK)
	if settings.Ask.SystemPrompt == domain.DefaultSystemPrompt {
		cmd.Println("  System prompt: (default)")
	} else {
		cmd.Printf("  System prompt: (custom, %d characters)\n", len(settings.Ask.SystemPrompt))
	}
	cmd.Println()

	cmd.Println("[Catalog]")
	if settings.CatalogPath == "" {
		cmd.Println("  Path: ~/.advisor/catalog.json (default)")
	} else {
		cmd.Printf("  Path: %s\n", settings.CatalogPath)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'advisor settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	var err error
	switch key {
	case "embedding.model":
		err = settingsService.SetEmbeddingModel(value)
	case "llm.model":
		err = settingsService.SetLLMModel(value)
	case "chunker.chunk_size":
		err = setChunkingField(value, true)
	case "chunker.chunk_overlap":
		err = setChunkingField(value, false)
	case "ask.top_k":
		var topK int
		if topK, err = strconv.Atoi(value); err == nil {
			err = settingsService.SetTopK(topK)
		}
	case "ask.system_prompt":
		err = settingsService.SetSystemPrompt(value)
	default:
		return fmt.Errorf("unknown setting %q (see 'advisor settings set --help')", key)
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// setChunkingField updates one half of the chunking pair, keeping the
// other at its current value.
func setChunkingField(value string, isSize bool) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, value)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	size, overlap := settings.Chunker.ChunkSize, settings.Chunker.ChunkOverlap
	if isSize {
		size = n
	} else {
		overlap = n
	}
	return settingsService.SetChunking(size, overlap)
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Advisor Settings Wizard")
	cmd.Println("=======================")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	// Step 1: embedding model.
	cmd.Println("Step 1: Embedding model")
	cmd.Println("-----------------------")
	models := knownEmbeddingModels()
	defaultChoice := 1
	for i, model := range models {
		if model == settings.Embedding.Model {
			defaultChoice = i + 1
		}
		cmd.Printf("  %d. %s (%d dimensions)\n", i+1, model, domain.EmbeddingDimensions()[model])
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	choice := parseChoice(readLine(reader), len(models), defaultChoice)
	if err := settingsService.SetEmbeddingModel(models[choice-1]); err != nil {
		return fmt.Errorf("failed to set embedding model: %w", err)
	}
	cmd.Printf("Embedding model: %s\n\n", models[choice-1])

	// Step 2: chat model.
	cmd.Println("Step 2: Chat model")
	cmd.Println("------------------")
	cmd.Printf("Enter model name [%s]: ", settings.LLM.Model)
	model := readLine(reader)
	if model == "" {
		model = settings.LLM.Model
	}
	if err := settingsService.SetLLMModel(model); err != nil {
		return fmt.Errorf("failed to set chat model: %w", err)
	}
	cmd.Printf("Chat model: %s\n\n", model)

	// Step 3: chunking.
	cmd.Println("Step 3: Chunking")
	cmd.Println("----------------")
	cmd.Printf("Chunk size in bytes [%d]: ", settings.Chunker.ChunkSize)
	size := parseIntInput(readLine(reader), settings.Chunker.ChunkSize)
	cmd.Printf("Chunk overlap in bytes [%d]: ", settings.Chunker.ChunkOverlap)
	overlap := parseIntInput(readLine(reader), settings.Chunker.ChunkOverlap)
	if err := settingsService.SetChunking(size, overlap); err != nil {
		return fmt.Errorf("failed to set chunking: %w", err)
	}
	cmd.Printf("Chunking: %d bytes, %d overlap\n\n", size, overlap)

	// Step 4: retrieval depth.
	cmd.Println("Step 4: Retrieval")
	cmd.Println("-----------------")
	cmd.Printf("Passages per question (top-k) [%d]: ", settings.Ask.TopK)
	topK := parseIntInput(readLine(reader), settings.Ask.TopK)
	if err := settingsService.SetTopK(topK); err != nil {
		return fmt.Errorf("failed to set top-k: %w", err)
	}
	cmd.Printf("Top K: %d\n\n", topK)

	// Step 5: credentials. Keys are environment-only; a pasted key is set
	// for this process so validation can run, never written anywhere.
	cmd.Println("Step 5: Credentials")
	cmd.Println("-------------------")
	wizardCredential(cmd, reader, "OPENAI_API_KEY")
	wizardCredential(cmd, reader, "PINECONE_API_KEY")
	cmd.Println()

	cmd.Print("Validating embedding configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
	} else {
		cmd.Println("OK")
	}
	cmd.Print("Validating LLM configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
	} else {
		cmd.Println("OK")
	}
	cmd.Println()

	cmd.Println("Configuration complete")
	cmd.Println("======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

// wizardCredential reports whether the variable is set and offers to take
// a session-only value when it is not.
func wizardCredential(cmd *cobra.Command, reader *bufio.Reader, name string) {
	if key := os.Getenv(name); key != "" {
		cmd.Printf("%s: set (%s)\n", name, maskAPIKey(key))
		return
	}

	cmd.Printf("%s: not set\n", name)
	cmd.Print("  Paste a key to use for this session (Enter to skip): ")
	key := readPassword()
	cmd.Println()
	if key == "" {
		return
	}

	_ = os.Setenv(name, key)
	cmd.Printf("  Session key set. Export %s in your shell to make it permanent.\n", name)
}

// knownEmbeddingModels returns the supported models in a stable order.
func knownEmbeddingModels() []string {
	dims := domain.EmbeddingDimensions()
	models := make([]string, 0, len(dims))
	for model := range dims {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// parseIntInput parses a numeric reply, falling back to the default on
// empty or invalid input.
func parseIntInput(input string, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// describeKey renders a credential for display without revealing it.
func describeKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func describeConfigured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
