package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var scrapeOut string

var scrapeCmd = &cobra.Command{
	Use:   "scrape URL [URL...]",
	Short: "Scrape web pages into a snapshot file",
	Long: `Fetches each page, chunks its main content and embeds the chunks, then
writes everything to a local snapshot file instead of the index. A page
whose embedding fails still lands in the snapshot with zero vectors, so a
later 'advisor load --re-embed' can repair it.

Load the snapshot into the index with 'advisor load'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", defaultSnapshotFile, "snapshot file to write")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	if scrapeService == nil {
		return errors.New("scrape service not configured: set OPENAI_API_KEY and PINECONE_API_KEY")
	}

	ctx := context.Background()

	cmd.Printf("Scraping %d page(s)...\n", len(args))
	report, err := scrapeService.Scrape(ctx, args, scrapeOut)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	cmd.Printf("Scraped %d page(s) into %d chunks.\n", report.Pages, report.Chunks)
	if report.ZeroVectors > 0 {
		cmd.Printf("%d chunk(s) could not be embedded and carry zero vectors.\n", report.ZeroVectors)
		cmd.Println("Repair them with 'advisor load --re-embed'.")
	}
	cmd.Printf("Snapshot written to %s.\n", report.SnapshotPath)
	return nil
}
