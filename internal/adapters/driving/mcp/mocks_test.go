package mcp

import (
	"context"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer   *domain.Answer
	passages []domain.Passage
	err      error

	lastQuestion string
	lastTopK     int
}

func (m *mockAnswerService) Ask(_ context.Context, question string, topK int) (*domain.Answer, error) {
	m.lastQuestion = question
	m.lastTopK = topK
	return m.answer, m.err
}

func (m *mockAnswerService) ChatTurn(_ context.Context, _ *domain.Session, question string) (*domain.Answer, error) {
	m.lastQuestion = question
	return m.answer, m.err
}

func (m *mockAnswerService) Search(_ context.Context, query string, topK int) ([]domain.Passage, error) {
	m.lastQuestion = query
	m.lastTopK = topK
	return m.passages, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	entries   []domain.CatalogEntry
	summary   domain.CatalogSummary
	processed bool
	removed   int
	err       error
}

func (m *mockCatalogService) Add(entry domain.CatalogEntry) (domain.CatalogEntry, error) {
	return entry, m.err
}

func (m *mockCatalogService) IsProcessed(_ string) (bool, error) {
	return m.processed, m.err
}

func (m *mockCatalogService) Remove(_ string) (int, error) {
	return m.removed, m.err
}

func (m *mockCatalogService) List() ([]domain.CatalogEntry, error) {
	return m.entries, m.err
}

func (m *mockCatalogService) Summary() (domain.CatalogSummary, error) {
	return m.summary, m.err
}
