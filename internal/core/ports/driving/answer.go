package driving

import (
	"context"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// AnswerService answers questions grounded in the knowledge base.
type AnswerService interface {
	// Ask embeds the question, retrieves the topK nearest passages and
	// generates a grounded answer. topK <= 0 uses the configured default.
	// No matching passages yields a fixed fallback answer, not an error.
	Ask(ctx context.Context, question string, topK int) (*domain.Answer, error)

	// ChatTurn answers within a session: recent turns join the prompt and
	// both the question and the answer are appended to the transcript.
	ChatTurn(ctx context.Context, session *domain.Session, question string) (*domain.Answer, error)

	// Search retrieves passages without generating an answer.
	Search(ctx context.Context, query string, topK int) ([]domain.Passage, error)
}
