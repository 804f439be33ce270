package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the processing catalog",
	Long:  `List, summarise, or repair the record of processed documents.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued documents",
	RunE:  runCatalogList,
}

var catalogSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show catalog totals",
	RunE:  runCatalogSummary,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove [url]",
	Short: "Remove all entries for a URL",
	Long: `Removes every catalog entry recorded for the URL, so the next ingest
processes it again. Vectors already in the index are not touched; a
re-ingest overwrites them by chunk ID.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogRemove,
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogSummaryCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	entries, err := catalogService.List()
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("Catalog is empty. Run 'advisor ingest <url>' to process documents.")
		return nil
	}

	cmd.Println("Catalogued documents:")
	cmd.Println()
	for i := range entries {
		e := &entries[i]
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		cmd.Printf("  %s  [%s]\n", e.DocumentID, status)
		cmd.Printf("    Title:  %s\n", e.Title)
		cmd.Printf("    URL:    %s\n", e.URL)
		cmd.Printf("    Chunks: %d\n", e.ChunkCount)
		cmd.Printf("    When:   %s\n", e.ProcessedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d entries\n", len(entries))
	return nil
}

func runCatalogSummary(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	summary, err := catalogService.Summary()
	if err != nil {
		return fmt.Errorf("failed to summarise catalog: %w", err)
	}

	cmd.Println("Catalog summary")
	cmd.Println("===============")
	cmd.Printf("  Entries:   %d\n", summary.Entries)
	cmd.Printf("  Succeeded: %d\n", summary.Succeeded)
	cmd.Printf("  Failed:    %d\n", summary.Failed)
	cmd.Printf("  Chunks:    %d\n", summary.Chunks)
	if !summary.LastUpdated.IsZero() {
		cmd.Printf("  Updated:   %s\n", summary.LastUpdated.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	url := args[0]
	removed, err := catalogService.Remove(url)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", url, err)
	}

	if removed == 0 {
		cmd.Printf("No catalog entries for %s.\n", url)
		return nil
	}
	if removed == 1 {
		cmd.Printf("Removed 1 entry for %s.\n", url)
	} else {
		cmd.Printf("Removed %d entries for %s.\n", removed, url)
	}
	return nil
}
