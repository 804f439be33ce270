package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

var (
	ingestTitle    string
	ingestManifest string
	ingestForce    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [url ...]",
	Short: "Ingest documents into the knowledge base",
	Long: `Fetches each document (PDF or web page), splits it into chunks, embeds
the chunks and upserts them into the vector index. Every attempt is
recorded in the processing catalog; already-processed URLs are skipped
unless --force is set.

Documents are given as arguments, in a TOML manifest, or both:

  [[documents]]
  url = "https://university.example/handbook.pdf"
  title = "Student Handbook"

Requires OPENAI_API_KEY and PINECONE_API_KEY in the environment.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "display title (single URL only)")
	ingestCmd.Flags().StringVarP(&ingestManifest, "manifest", "m", "", "TOML manifest listing documents")
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "reprocess already-catalogued URLs")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured: set OPENAI_API_KEY and PINECONE_API_KEY")
	}

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.New("nothing to ingest: pass URLs or --manifest")
	}
	if ingestTitle != "" {
		if len(docs) > 1 {
			return errors.New("--title applies to a single URL")
		}
		docs[0].Title = ingestTitle
	}

	ctx := context.Background()
	report := ingestService.ProcessMany(ctx, docs, ingestForce)
	renderIngestReport(cmd, report)

	if report.AllFailed() {
		return errors.New("all documents failed")
	}
	return nil
}

// collectDocuments merges the manifest (if any) with URL arguments, in
// that order.
func collectDocuments(args []string) ([]domain.DocumentRequest, error) {
	var docs []domain.DocumentRequest

	if ingestManifest != "" {
		manifestDocs, err := readManifest(ingestManifest)
		if err != nil {
			return nil, err
		}
		docs = append(docs, manifestDocs...)
	}

	for _, url := range args {
		docs = append(docs, domain.DocumentRequest{URL: url})
	}

	return docs, nil
}

// readManifest parses a TOML manifest of [[documents]] entries.
func readManifest(path string) ([]domain.DocumentRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest struct {
		Documents []domain.DocumentRequest `toml:"documents"`
	}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	return manifest.Documents, nil
}

func renderIngestReport(cmd *cobra.Command, report *domain.IngestReport) {
	cmd.Println()
	for _, res := range report.Results {
		switch res.Status {
		case domain.IngestProcessed:
			cmd.Printf("  processed  %s (%d chunks)\n", res.URL, res.ChunkCount)
		case domain.IngestSkipped:
			cmd.Printf("  skipped    %s (already processed, use --force to redo)\n", res.URL)
		case domain.IngestFailed:
			cmd.Printf("  failed     %s: %v\n", res.URL, res.Err)
		}
	}
	cmd.Println()
	cmd.Printf("Processed %d, skipped %d, failed %d.\n",
		report.Processed, report.Skipped, report.Failed)
}
