package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

var (
	askTopK        int
	askShowSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question",
	Long: `Embeds the question, retrieves the closest passages from the index and
generates an answer grounded in them.

Requires OPENAI_API_KEY and PINECONE_API_KEY in the environment.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "passages to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askShowSources, "show-sources", false, "list the source passages under the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured: set OPENAI_API_KEY and PINECONE_API_KEY")
	}

	ctx := context.Background()

	answer, err := answerService.Ask(ctx, args[0], askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if askShowSources {
		renderSources(cmd, answer.Sources)
	}
	return nil
}

func renderSources(cmd *cobra.Command, sources []domain.Passage) {
	if len(sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range sources {
		cmd.Printf("  [%d] %s (%s) score=%.2f\n", i+1, src.Title, src.URL, src.Score)
	}
}
