package cli

import (
	"context"
	"time"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
)

// Mock services for command tests. Each implements a driving port with
// overridable Func fields and a sensible happy-path default, so a test
// only configures the calls it cares about.

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	ProcessOneFunc  func(ctx context.Context, url, title string, force bool) domain.IngestResult
	ProcessManyFunc func(ctx context.Context, docs []domain.DocumentRequest, force bool) *domain.IngestReport
}

func (m *mockIngestService) ProcessOne(ctx context.Context, url, title string, force bool) domain.IngestResult {
	if m.ProcessOneFunc != nil {
		return m.ProcessOneFunc(ctx, url, title, force)
	}
	return domain.IngestResult{URL: url, Title: title, Status: domain.IngestProcessed, ChunkCount: 5}
}

func (m *mockIngestService) ProcessMany(ctx context.Context, docs []domain.DocumentRequest, force bool) *domain.IngestReport {
	if m.ProcessManyFunc != nil {
		return m.ProcessManyFunc(ctx, docs, force)
	}
	report := &domain.IngestReport{}
	for _, doc := range docs {
		report.Add(domain.IngestResult{
			URL:        doc.URL,
			Title:      doc.Title,
			Status:     domain.IngestProcessed,
			ChunkCount: 5,
		})
	}
	return report
}

// mockAnswerService implements driving.AnswerService.
type mockAnswerService struct {
	AskFunc      func(ctx context.Context, question string, topK int) (*domain.Answer, error)
	ChatTurnFunc func(ctx context.Context, session *domain.Session, question string) (*domain.Answer, error)
	SearchFunc   func(ctx context.Context, query string, topK int) ([]domain.Passage, error)
}

func (m *mockAnswerService) Ask(ctx context.Context, question string, topK int) (*domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, topK)
	}
	return &domain.Answer{
		Text: "Mock answer.",
		Sources: []domain.Passage{
			{Title: "Mock Doc", URL: "https://uni.example/doc", Score: 0.9},
		},
	}, nil
}

func (m *mockAnswerService) ChatTurn(ctx context.Context, session *domain.Session, question string) (*domain.Answer, error) {
	if m.ChatTurnFunc != nil {
		return m.ChatTurnFunc(ctx, session, question)
	}
	answer := &domain.Answer{Text: "Mock answer."}
	session.Append(domain.RoleUser, question, nil)
	session.Append(domain.RoleAssistant, answer.Text, nil)
	return answer, nil
}

func (m *mockAnswerService) Search(ctx context.Context, query string, topK int) ([]domain.Passage, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, topK)
	}
	return []domain.Passage{
		{Title: "Mock Doc", URL: "https://uni.example/doc", Score: 0.9},
	}, nil
}

// mockCatalogService implements driving.CatalogService.
type mockCatalogService struct {
	AddFunc         func(entry domain.CatalogEntry) (domain.CatalogEntry, error)
	IsProcessedFunc func(url string) (bool, error)
	RemoveFunc      func(url string) (int, error)
	ListFunc        func() ([]domain.CatalogEntry, error)
	SummaryFunc     func() (domain.CatalogSummary, error)
}

func (m *mockCatalogService) Add(entry domain.CatalogEntry) (domain.CatalogEntry, error) {
	if m.AddFunc != nil {
		return m.AddFunc(entry)
	}
	return entry, nil
}

func (m *mockCatalogService) IsProcessed(url string) (bool, error) {
	if m.IsProcessedFunc != nil {
		return m.IsProcessedFunc(url)
	}
	return false, nil
}

func (m *mockCatalogService) Remove(url string) (int, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(url)
	}
	return 1, nil
}

func (m *mockCatalogService) List() ([]domain.CatalogEntry, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return []domain.CatalogEntry{
		{
			URL:         "https://uni.example/handbook.pdf",
			Title:       "Student Handbook",
			ProcessedAt: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
			ChunkCount:  12,
			Success:     true,
			DocumentID:  "doc_1",
		},
		{
			URL:         "https://uni.example/fees",
			Title:       "Fees",
			ProcessedAt: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
			Success:     false,
			DocumentID:  "doc_2",
		},
	}, nil
}

func (m *mockCatalogService) Summary() (domain.CatalogSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc()
	}
	return domain.CatalogSummary{
		Entries:     2,
		Succeeded:   1,
		Failed:      1,
		Chunks:      12,
		LastUpdated: time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC),
	}, nil
}

// mockAdminService implements driving.AdminService.
type mockAdminService struct {
	EnsureIndexFunc func(ctx context.Context) error
	DeleteIndexFunc func(ctx context.Context) error
	StatsFunc       func(ctx context.Context) (domain.IndexStats, error)
	ReadyFunc       func(ctx context.Context) (domain.IndexStats, error)
}

func (m *mockAdminService) EnsureIndex(ctx context.Context) error {
	if m.EnsureIndexFunc != nil {
		return m.EnsureIndexFunc(ctx)
	}
	return nil
}

func (m *mockAdminService) DeleteIndex(ctx context.Context) error {
	if m.DeleteIndexFunc != nil {
		return m.DeleteIndexFunc(ctx)
	}
	return nil
}

func (m *mockAdminService) Stats(ctx context.Context) (domain.IndexStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return domain.IndexStats{VectorCount: 128, Dimension: 3072}, nil
}

func (m *mockAdminService) Ready(ctx context.Context) (domain.IndexStats, error) {
	if m.ReadyFunc != nil {
		return m.ReadyFunc(ctx)
	}
	return domain.IndexStats{VectorCount: 128, Dimension: 3072}, nil
}

// mockScrapeService implements driving.ScrapeService.
type mockScrapeService struct {
	ScrapeFunc       func(ctx context.Context, urls []string, snapshotPath string) (*driving.ScrapeReport, error)
	LoadSnapshotFunc func(ctx context.Context, snapshotPath string, reEmbed bool) (int, error)
}

func (m *mockScrapeService) Scrape(ctx context.Context, urls []string, snapshotPath string) (*driving.ScrapeReport, error) {
	if m.ScrapeFunc != nil {
		return m.ScrapeFunc(ctx, urls, snapshotPath)
	}
	return &driving.ScrapeReport{
		Pages:        len(urls),
		Chunks:       3 * len(urls),
		SnapshotPath: snapshotPath,
	}, nil
}

func (m *mockScrapeService) LoadSnapshot(ctx context.Context, snapshotPath string, reEmbed bool) (int, error) {
	if m.LoadSnapshotFunc != nil {
		return m.LoadSnapshotFunc(ctx, snapshotPath, reEmbed)
	}
	return 9, nil
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	GetFunc                     func() (*domain.AppSettings, error)
	SaveFunc                    func(settings *domain.AppSettings) error
	SetEmbeddingModelFunc       func(model string) error
	SetLLMModelFunc             func(model string) error
	SetChunkingFunc             func(size, overlap int) error
	SetTopKFunc                 func(topK int) error
	SetSystemPromptFunc         func(prompt string) error
	ValidateFunc                func() error
	ValidateEmbeddingConfigFunc func() error
	ValidateLLMConfigFunc       func() error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	settings := domain.DefaultAppSettings()
	return &settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(settings)
	}
	return nil
}

func (m *mockSettingsService) SetEmbeddingModel(model string) error {
	if m.SetEmbeddingModelFunc != nil {
		return m.SetEmbeddingModelFunc(model)
	}
	return nil
}

func (m *mockSettingsService) SetLLMModel(model string) error {
	if m.SetLLMModelFunc != nil {
		return m.SetLLMModelFunc(model)
	}
	return nil
}

func (m *mockSettingsService) SetChunking(size, overlap int) error {
	if m.SetChunkingFunc != nil {
		return m.SetChunkingFunc(size, overlap)
	}
	return nil
}

func (m *mockSettingsService) SetTopK(topK int) error {
	if m.SetTopKFunc != nil {
		return m.SetTopKFunc(topK)
	}
	return nil
}

func (m *mockSettingsService) SetSystemPrompt(prompt string) error {
	if m.SetSystemPromptFunc != nil {
		return m.SetSystemPromptFunc(prompt)
	}
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc()
	}
	return nil
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	if m.ValidateEmbeddingConfigFunc != nil {
		return m.ValidateEmbeddingConfigFunc()
	}
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	if m.ValidateLLMConfigFunc != nil {
		return m.ValidateLLMConfigFunc()
	}
	return nil
}

// setupTestServices installs happy-path mocks for every service and
// returns a cleanup that restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldAnswer := answerService
	oldCatalog := catalogService
	oldAdmin := adminService
	oldScrape := scrapeService
	oldSettings := settingsService

	ingestService = &mockIngestService{}
	answerService = &mockAnswerService{}
	catalogService = &mockCatalogService{}
	adminService = &mockAdminService{}
	scrapeService = &mockScrapeService{}
	settingsService = &mockSettingsService{}

	return func() {
		ingestService = oldIngest
		answerService = oldAnswer
		catalogService = oldCatalog
		adminService = oldAdmin
		scrapeService = oldScrape
		settingsService = oldSettings
	}
}
