package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vector index and report readiness",
	Long: `Creates the vector index if it does not exist, waits for it to serve,
and reports whether it already holds vectors.

Requires PINECONE_API_KEY in the environment (or a .env file).`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errors.New("index service not configured: set PINECONE_API_KEY")
	}

	ctx := context.Background()

	cmd.Println("Ensuring index exists...")
	if err := adminService.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	stats, err := adminService.Ready(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotReady) {
			cmd.Println("Index is reachable but holds no vectors yet.")
			cmd.Println("Run 'advisor ingest <url>' or 'advisor load' to add documents.")
			return nil
		}
		return fmt.Errorf("readiness check failed: %w", err)
	}

	cmd.Printf("Index ready: %d vectors (dimension %d).\n", stats.VectorCount, stats.Dimension)
	return nil
}
