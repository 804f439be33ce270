package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/quaystone/advisor-cli/internal/adapters/driving/chat"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive advisor chat",
	Long: `Launches an interactive chat session. Each question is answered from the
indexed documents, with recent turns carried into the prompt.

Controls:
  Enter   - Ask
  Ctrl+L  - Clear the session
  Ctrl+E  - Export the transcript to Markdown
  Esc     - Quit

Requires OPENAI_API_KEY and PINECONE_API_KEY in the environment.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("answer service not configured: set OPENAI_API_KEY and PINECONE_API_KEY")
	}

	// Recover with a stack trace: a panic inside the Elm loop otherwise
	// leaves the terminal in the alternate screen with no diagnostics.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app := chat.NewApp(answerService)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}

	return nil
}
