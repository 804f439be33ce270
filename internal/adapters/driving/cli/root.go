// Package cli implements the advisor command-line interface.
//
// Commands talk to the core through the driving ports. Execute wires the
// real adapters; tests assign mocks to the package-level service variables
// and invoke rootCmd directly.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaystone/advisor-cli/internal/adapters/driven/ai"
	catalogfile "github.com/quaystone/advisor-cli/internal/adapters/driven/catalog/file"
	configfile "github.com/quaystone/advisor-cli/internal/adapters/driven/config/file"
	fetchhttp "github.com/quaystone/advisor-cli/internal/adapters/driven/fetch/http"
	snapshotfile "github.com/quaystone/advisor-cli/internal/adapters/driven/snapshot/file"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
	"github.com/quaystone/advisor-cli/internal/core/services"
	"github.com/quaystone/advisor-cli/internal/logger"
	"github.com/quaystone/advisor-cli/internal/normalisers"
	"github.com/quaystone/advisor-cli/internal/normalisers/docx"
	"github.com/quaystone/advisor-cli/internal/normalisers/html"
	"github.com/quaystone/advisor-cli/internal/normalisers/markdown"
	"github.com/quaystone/advisor-cli/internal/normalisers/pdf"
	"github.com/quaystone/advisor-cli/internal/normalisers/plaintext"
	"github.com/quaystone/advisor-cli/internal/postprocessors"
)

// version is the build version, overridden at build time via SetVersion.
var version = "dev"

// defaultSnapshotFile is where scrape writes and load reads unless told
// otherwise.
const defaultSnapshotFile = "scraped_data.json"

// Services the commands call. Execute wires the real implementations;
// tests swap in mocks. Remote-backed services stay nil when the required
// credentials are missing, and each command reports which variable to set.
var (
	ingestService   driving.IngestService
	answerService   driving.AnswerService
	catalogService  driving.CatalogService
	adminService    driving.AdminService
	scrapeService   driving.ScrapeService
	settingsService driving.SettingsService
)

// verbose is bound to the global --verbose flag.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Retrieval-augmented campus advisor",
	Long: `Advisor ingests university documents (PDFs and web pages) into a hosted
vector index and answers questions grounded in them.

Typical workflow:
  advisor init                     create the index
  advisor ingest <url> ...         process documents
  advisor ask "How do I enrol?"    get a grounded answer
  advisor chat                     interactive session`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute wires the real services and runs the root command.
func Execute() error {
	if err := wireServices(); err != nil {
		return err
	}
	return rootCmd.Execute()
}

// wireServices builds the adapters and services from configuration and
// environment credentials. Services whose credentials are missing are left
// nil rather than failing here: only the commands that need them error,
// with a message naming the variable to set.
func wireServices() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	catalogStore, err := catalogfile.NewCatalogStore(settings.CatalogPath)
	if err != nil {
		return fmt.Errorf("opening catalog: %w", err)
	}
	catalogService = services.NewCatalogService(catalogStore)

	var embedding driven.EmbeddingService
	if svc, err := ai.CreateEmbeddingService(&settings.Embedding); err == nil {
		embedding = svc
	}

	var llm driven.LLMService
	if svc, err := ai.CreateLLMService(&settings.LLM); err == nil {
		llm = svc
	}

	var vectors driven.VectorStore
	if store, err := ai.CreateVectorStore(&settings.VectorStore); err == nil {
		vectors = store
	}

	if vectors != nil {
		adminService = services.NewAdminService(vectors)
	}

	if embedding != nil && vectors != nil {
		fetcher := fetchhttp.New(fetchhttp.Config{})

		registry := normalisers.NewRegistry()
		registry.Register(html.New())
		registry.Register(pdf.New())
		registry.Register(docx.New())
		registry.Register(markdown.New())
		registry.Register(plaintext.New())

		procs := postprocessors.NewRegistry()
		postprocessors.RegisterDefaults(procs)
		pipeline, err := procs.BuildPipeline(settings.PipelineConfig())
		if err != nil {
			return fmt.Errorf("building pipeline: %w", err)
		}

		ingestService = services.NewIngestService(
			fetcher, registry, pipeline, embedding, vectors, catalogService)
		scrapeService = services.NewScrapeService(
			fetcher, registry, pipeline, embedding, vectors, snapshotfile.NewSnapshotStore())

		if llm != nil {
			answerService = services.NewAnswerService(embedding, vectors, llm, settings.Ask)
		}
	}

	return nil
}
