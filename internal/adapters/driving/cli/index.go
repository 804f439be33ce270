package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var indexDeleteYes bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
	Long:  `Create, inspect, or delete the hosted vector index.`,
}

var indexCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the index if it does not exist",
	RunE:  runIndexCreate,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runIndexStats,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the index and all its vectors",
	Long: `Deletes the index and every vector in it. This cannot be undone; the
catalog file is kept so 'advisor ingest --force' can rebuild the index.`,
	RunE: runIndexDelete,
}

func init() {
	indexDeleteCmd.Flags().BoolVarP(&indexDeleteYes, "yes", "y", false, "skip the confirmation prompt")
	indexCmd.AddCommand(indexCreateCmd)
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexDeleteCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexCreate(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("index service not configured: set PINECONE_API_KEY")
	}

	ctx := context.Background()
	if err := adminService.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("index create failed: %w", err)
	}

	cmd.Println("Index ready.")
	return nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("index service not configured: set PINECONE_API_KEY")
	}

	ctx := context.Background()
	stats, err := adminService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("index stats failed: %w", err)
	}

	cmd.Println("Index statistics")
	cmd.Println("================")
	cmd.Printf("  Vectors:   %d\n", stats.VectorCount)
	cmd.Printf("  Dimension: %d\n", stats.Dimension)
	if !stats.Ready() {
		cmd.Println()
		cmd.Println("Index holds no vectors. Run 'advisor ingest <url>' to add documents.")
	}
	return nil
}

func runIndexDelete(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("index service not configured: set PINECONE_API_KEY")
	}

	if !indexDeleteYes {
		cmd.Print("Delete the index and all its vectors? This cannot be undone. [y/N]: ")
		if !confirm(readLine(bufio.NewReader(os.Stdin))) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx := context.Background()
	if err := adminService.DeleteIndex(ctx); err != nil {
		return fmt.Errorf("index delete failed: %w", err)
	}

	cmd.Println("Index deleted.")
	return nil
}

// confirm interprets a y/N prompt reply.
func confirm(input string) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
