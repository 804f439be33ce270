package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	loadSnapshot string
	loadReEmbed  bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a scraped snapshot into the vector index",
	Long: `Reads a snapshot written by 'advisor scrape' and upserts its chunks into
the vector index. With --re-embed, chunks that carry zero vectors (their
embedding failed during scraping) are embedded again first and the repaired
snapshot is written back.`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVarP(&loadSnapshot, "snapshot", "s", defaultSnapshotFile, "snapshot file to load")
	loadCmd.Flags().BoolVar(&loadReEmbed, "re-embed", false, "re-embed zero-vector chunks before upserting")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, _ []string) error {
	if scrapeService == nil {
		return errors.New("scrape service not configured: set OPENAI_API_KEY and PINECONE_API_KEY")
	}

	ctx := context.Background()

	count, err := scrapeService.LoadSnapshot(ctx, loadSnapshot, loadReEmbed)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	cmd.Printf("Loaded %d chunks from %s into the index.\n", count, loadSnapshot)
	return nil
}
