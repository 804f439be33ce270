package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
	"github.com/quaystone/advisor-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// NoContextAnswer is returned when retrieval finds nothing. The LLM is
// not called in that case: an ungrounded answer is worse than none.
const NoContextAnswer = "I couldn't find anything about that in the knowledge base. " +
	"Try rephrasing the question, or ingest more documents with 'advisor ingest'."

// Generation parameters for grounded answers. Low temperature keeps the
// model close to the retrieved passages.
const (
	answerMaxTokens   = 700
	answerTemperature = 0.2

	// chatHistoryTurns caps how many prior turns join a chat prompt.
	chatHistoryTurns = 6
)

// AnswerService answers questions grounded in the vector store.
type AnswerService struct {
	embedding driven.EmbeddingService
	vectors   driven.VectorStore
	llm       driven.LLMService
	ask       domain.AskSettings
}

// NewAnswerService creates a new answer service. ask supplies the default
// retrieval depth and the system prompt.
func NewAnswerService(
	embedding driven.EmbeddingService,
	vectors driven.VectorStore,
	llm driven.LLMService,
	ask domain.AskSettings,
) *AnswerService {
	if ask.TopK <= 0 {
		ask.TopK = domain.DefaultAppSettings().Ask.TopK
	}
	if ask.SystemPrompt == "" {
		ask.SystemPrompt = domain.DefaultSystemPrompt
	}

	return &AnswerService{
		embedding: embedding,
		vectors:   vectors,
		llm:       llm,
		ask:       ask,
	}
}

// Ask embeds the question, retrieves the nearest passages and generates a
// grounded answer. No matching passages yields NoContextAnswer, not an
// error and not an LLM call.
func (s *AnswerService) Ask(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	passages, err := s.retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	if len(passages) == 0 {
		logger.Info("No passages retrieved, returning fallback answer")
		return &domain.Answer{Text: NoContextAnswer}, nil
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: s.ask.SystemPrompt},
		{Role: "user", Content: buildQuestionPrompt(question, passages)},
	}

	text, err := s.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{Text: text, Sources: passages}, nil
}

// ChatTurn answers within a session. Recent turns join the prompt so
// follow-up questions resolve, and both halves of the exchange are
// appended to the transcript. Nothing is appended when generation fails.
func (s *AnswerService) ChatTurn(ctx context.Context, session *domain.Session, question string) (*domain.Answer, error) {
	if session == nil {
		return nil, fmt.Errorf("%w: nil session", domain.ErrInvalidInput)
	}

	passages, err := s.retrieve(ctx, question, 0)
	if err != nil {
		return nil, err
	}

	question = strings.TrimSpace(question)

	if len(passages) == 0 {
		logger.Info("No passages retrieved for chat turn, returning fallback answer")
		answer := &domain.Answer{Text: NoContextAnswer}
		session.Append(domain.RoleUser, question, nil)
		session.Append(domain.RoleAssistant, answer.Text, nil)
		return answer, nil
	}

	messages := make([]driven.ChatMessage, 0, chatHistoryTurns+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: s.ask.SystemPrompt})
	for _, turn := range session.Recent(chatHistoryTurns) {
		messages = append(messages, driven.ChatMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: buildQuestionPrompt(question, passages),
	})

	text, err := s.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	session.Append(domain.RoleUser, question, nil)
	session.Append(domain.RoleAssistant, text, passages)

	return &domain.Answer{Text: text, Sources: passages}, nil
}

// Search retrieves passages without generating an answer.
func (s *AnswerService) Search(ctx context.Context, query string, topK int) ([]domain.Passage, error) {
	return s.retrieve(ctx, query, topK)
}

// retrieve embeds the query and returns the nearest passages, ordered by
// descending score. topK <= 0 uses the configured default.
func (s *AnswerService) retrieve(ctx context.Context, query string, topK int) ([]domain.Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	if topK <= 0 {
		topK = s.ask.TopK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, topK: %d", query, topK)

	vector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	matches, err := s.vectors.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	logger.Debug("Retrieved %d matches", len(matches))

	passages := make([]domain.Passage, 0, len(matches))
	for _, match := range matches {
		content := match.Metadata["content"]
		if content == "" {
			// Vectors loaded without text cannot ground an answer.
			logger.Debug("Skipping match %s: no content in metadata", match.ID)
			continue
		}
		passages = append(passages, domain.Passage{
			Title:   match.Metadata["title"],
			URL:     match.Metadata["sourceUrl"],
			Content: content,
			Score:   match.Score,
		})
	}

	return passages, nil
}

// generate calls the LLM and trims the completion.
func (s *AnswerService) generate(ctx context.Context, messages []driven.ChatMessage) (string, error) {
	logger.Section("Generation")
	logger.Debug("Model: %s, messages: %d", s.llm.ModelName(), len(messages))

	text, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// buildQuestionPrompt assembles the retrieved passages and the question
// into a single user message. Passages are numbered so the model can cite
// them, each with its source attribution.
func buildQuestionPrompt(question string, passages []domain.Passage) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	for i, p := range passages {
		fmt.Fprintf(&b, "\n[%d] %s (%s)\n%s\n", i+1, p.Title, p.URL, p.Content)
	}
	fmt.Fprintf(&b, "\nQuestion: %s", question)

	return b.String()
}
