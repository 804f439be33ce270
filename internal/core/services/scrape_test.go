package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// --- Mock implementations for scrape testing ---
// Prefixed with "scrape" to avoid conflicts with other test files.

// scrapeMockFetcher implements driven.Fetcher, failing listed URLs.
type scrapeMockFetcher struct {
	failURLs map[string]bool
	fetched  []string
}

func (m *scrapeMockFetcher) Fetch(_ context.Context, url string) (*domain.RawDocument, error) {
	m.fetched = append(m.fetched, url)
	if m.failURLs[url] {
		return nil, domain.ErrFetchFailed
	}
	return &domain.RawDocument{
		URI:      url,
		MIMEType: "text/html",
		Content:  []byte("<html><main>course catalogue content</main></html>"),
	}, nil
}

// scrapeMockRegistry implements driven.NormaliserRegistry.
type scrapeMockRegistry struct{}

func (m *scrapeMockRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:     raw.URI,
			Title:   "Course Catalogue",
			Content: "course catalogue content",
		},
	}, nil
}

func (m *scrapeMockRegistry) Register(driven.Normaliser) {}

func (m *scrapeMockRegistry) SupportedMIMETypes() []string { return []string{"text/html"} }

// scrapeMockPipeline implements driven.PostProcessorPipeline, producing two
// UUID-identified chunks per document.
type scrapeMockPipeline struct{}

func (m *scrapeMockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	return []domain.Chunk{
		{ID: "uuid-1", Content: doc.Content + " part one", Metadata: map[string]string{"sourceUrl": doc.URI}},
		{ID: "uuid-2", Content: doc.Content + " part two", Metadata: map[string]string{"sourceUrl": doc.URI}},
	}, nil
}

// scrapeMockEmbedding implements driven.EmbeddingService, failing on texts
// listed in failTexts.
type scrapeMockEmbedding struct {
	failTexts map[string]bool
	embeds    int
}

func (m *scrapeMockEmbedding) Embed(_ context.Context, text string) ([]float32, error) {
	m.embeds++
	if m.failTexts[text] {
		return nil, domain.ErrEmbeddingUnavailable
	}
	return []float32{1, 2, 3}, nil
}

func (m *scrapeMockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

func (m *scrapeMockEmbedding) Dimensions() int { return 3 }

func (m *scrapeMockEmbedding) ModelName() string { return "mock-embedder" }

func (m *scrapeMockEmbedding) Ping(_ context.Context) error { return nil }

func (m *scrapeMockEmbedding) Close() error { return nil }

// scrapeMockSnapshots implements driven.SnapshotStore in memory.
type scrapeMockSnapshots struct {
	saved   map[string][]domain.Chunk
	loadErr error
	saveErr error
}

func newScrapeMockSnapshots() *scrapeMockSnapshots {
	return &scrapeMockSnapshots{saved: make(map[string][]domain.Chunk)}
}

func (m *scrapeMockSnapshots) Save(path string, chunks []domain.Chunk) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[path] = append([]domain.Chunk(nil), chunks...)
	return nil
}

func (m *scrapeMockSnapshots) Load(path string) ([]domain.Chunk, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved[path], nil
}

// scrapeMockVectors implements driven.VectorStore recording upserts.
type scrapeMockVectors struct {
	upserted  []domain.Vector
	upsertErr error
}

func (m *scrapeMockVectors) EnsureIndex(_ context.Context) error { return nil }

func (m *scrapeMockVectors) DeleteIndex(_ context.Context) error { return nil }

func (m *scrapeMockVectors) Upsert(_ context.Context, vectors []domain.Vector) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, vectors...)
	return nil
}

func (m *scrapeMockVectors) Query(_ context.Context, _ []float32, _ int) ([]domain.Match, error) {
	return nil, nil
}

func (m *scrapeMockVectors) Stats(_ context.Context) (domain.IndexStats, error) {
	return domain.IndexStats{}, nil
}

func (m *scrapeMockVectors) Close() error { return nil }

// newScrapeFixture wires a scrape service over fresh mocks.
func newScrapeFixture() (*ScrapeService, *scrapeMockFetcher, *scrapeMockEmbedding, *scrapeMockSnapshots, *scrapeMockVectors) {
	fetcher := &scrapeMockFetcher{failURLs: make(map[string]bool)}
	embedding := &scrapeMockEmbedding{failTexts: make(map[string]bool)}
	snapshots := newScrapeMockSnapshots()
	vectors := &scrapeMockVectors{}
	service := NewScrapeService(fetcher, &scrapeMockRegistry{}, &scrapeMockPipeline{},
		embedding, vectors, snapshots)
	return service, fetcher, embedding, snapshots, vectors
}

func TestScrapeService_Scrape_WritesSnapshot(t *testing.T) {
	service, _, _, snapshots, _ := newScrapeFixture()

	report, err := service.Scrape(context.Background(),
		[]string{"https://uni.example/courses", "https://uni.example/fees"}, "snap.json")

	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 4, report.Chunks)
	assert.Zero(t, report.ZeroVectors)
	assert.Equal(t, "snap.json", report.SnapshotPath)

	chunks := snapshots.saved["snap.json"]
	require.Len(t, chunks, 4)

	// Scraped chunk IDs derive from the URL, not UUIDs.
	assert.Equal(t, "https://uni.example/courses_0", chunks[0].ID)
	assert.Equal(t, "https://uni.example/courses_1", chunks[1].ID)
	assert.Equal(t, "https://uni.example/fees_0", chunks[2].ID)

	for _, chunk := range chunks {
		assert.Len(t, chunk.Embedding, 3)
	}
}

func TestScrapeService_Scrape_ZeroVectorOnEmbedFailure(t *testing.T) {
	service, _, embedding, snapshots, _ := newScrapeFixture()
	embedding.failTexts["course catalogue content part two"] = true

	report, err := service.Scrape(context.Background(),
		[]string{"https://uni.example/courses"}, "snap.json")

	require.NoError(t, err, "embedding failures must not fail the scrape")
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 2, report.Chunks)
	assert.Equal(t, 1, report.ZeroVectors)

	chunks := snapshots.saved["snap.json"]
	require.Len(t, chunks, 2)
	assert.Equal(t, []float32{1, 2, 3}, chunks[0].Embedding)
	assert.Equal(t, []float32{0, 0, 0}, chunks[1].Embedding)
}

func TestScrapeService_Scrape_SkipsFailedPages(t *testing.T) {
	service, fetcher, _, snapshots, _ := newScrapeFixture()
	fetcher.failURLs["https://uni.example/broken"] = true

	report, err := service.Scrape(context.Background(),
		[]string{"https://uni.example/broken", "https://uni.example/courses"}, "snap.json")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Pages)
	assert.Equal(t, 2, report.Chunks)
	assert.Len(t, snapshots.saved["snap.json"], 2)
}

func TestScrapeService_Scrape_AllPagesFailed(t *testing.T) {
	service, fetcher, _, snapshots, _ := newScrapeFixture()
	fetcher.failURLs["https://uni.example/broken"] = true

	_, err := service.Scrape(context.Background(),
		[]string{"https://uni.example/broken"}, "snap.json")

	assert.ErrorIs(t, err, domain.ErrExtractEmpty)
	assert.Empty(t, snapshots.saved, "no snapshot without content")
}

func TestScrapeService_Scrape_InvalidArguments(t *testing.T) {
	service, _, _, _, _ := newScrapeFixture()

	_, err := service.Scrape(context.Background(), []string{"https://uni.example/a"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Scrape(context.Background(), nil, "snap.json")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScrapeService_Scrape_CancelledContext(t *testing.T) {
	service, fetcher, _, _, _ := newScrapeFixture()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Scrape(ctx, []string{"https://uni.example/courses"}, "snap.json")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.fetched)
}

func TestScrapeService_LoadSnapshot_Upserts(t *testing.T) {
	service, _, _, snapshots, vectors := newScrapeFixture()
	snapshots.saved["snap.json"] = []domain.Chunk{
		{ID: "https://uni.example/courses_0", Content: "a", Embedding: []float32{1, 2, 3},
			Metadata: map[string]string{"title": "Course Catalogue"}},
		{ID: "https://uni.example/courses_1", Content: "b", Embedding: []float32{4, 5, 6}},
	}

	count, err := service.LoadSnapshot(context.Background(), "snap.json", false)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, vectors.upserted, 2)
	assert.Equal(t, "https://uni.example/courses_0", vectors.upserted[0].ID)
	assert.Equal(t, []float32{1, 2, 3}, vectors.upserted[0].Values)
	assert.Equal(t, "Course Catalogue", vectors.upserted[0].Metadata["title"])
}

func TestScrapeService_LoadSnapshot_ReEmbedsZeroVectors(t *testing.T) {
	service, _, embedding, snapshots, vectors := newScrapeFixture()
	snapshots.saved["snap.json"] = []domain.Chunk{
		{ID: "c_0", Content: "healthy", Embedding: []float32{1, 2, 3}},
		{ID: "c_1", Content: "repair me", Embedding: []float32{0, 0, 0}},
	}

	count, err := service.LoadSnapshot(context.Background(), "snap.json", true)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, embedding.embeds, "only the zero vector is re-embedded")

	// Both the upsert and the written-back snapshot carry the repair.
	assert.Equal(t, []float32{1, 2, 3}, vectors.upserted[1].Values)
	assert.Equal(t, []float32{1, 2, 3}, snapshots.saved["snap.json"][1].Embedding)
}

func TestScrapeService_LoadSnapshot_WithoutReEmbedKeepsZeros(t *testing.T) {
	service, _, embedding, snapshots, vectors := newScrapeFixture()
	snapshots.saved["snap.json"] = []domain.Chunk{
		{ID: "c_0", Content: "text", Embedding: []float32{0, 0, 0}},
	}

	count, err := service.LoadSnapshot(context.Background(), "snap.json", false)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Zero(t, embedding.embeds)
	assert.Equal(t, []float32{0, 0, 0}, vectors.upserted[0].Values)
}

func TestScrapeService_LoadSnapshot_MissingEmbeddingSubstituted(t *testing.T) {
	service, _, _, snapshots, vectors := newScrapeFixture()
	snapshots.saved["snap.json"] = []domain.Chunk{
		{ID: "c_0", Content: "text"},
	}

	count, err := service.LoadSnapshot(context.Background(), "snap.json", false)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []float32{0, 0, 0}, vectors.upserted[0].Values)
}

func TestScrapeService_LoadSnapshot_EmptySnapshot(t *testing.T) {
	service, _, _, _, _ := newScrapeFixture()

	_, err := service.LoadSnapshot(context.Background(), "missing.json", false)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestScrapeService_LoadSnapshot_ReEmbedFailureAborts(t *testing.T) {
	service, _, embedding, snapshots, vectors := newScrapeFixture()
	embedding.failTexts["repair me"] = true
	snapshots.saved["snap.json"] = []domain.Chunk{
		{ID: "c_0", Content: "repair me", Embedding: []float32{0, 0, 0}},
	}

	_, err := service.LoadSnapshot(context.Background(), "snap.json", true)

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Empty(t, vectors.upserted, "a failed repair must not half-load the snapshot")
}

func TestScrapeService_LoadSnapshot_UpsertFailure(t *testing.T) {
	service, _, _, snapshots, vectors := newScrapeFixture()
	vectors.upsertErr = errors.New("index unreachable")
	snapshots.saved["snap.json"] = []domain.Chunk{
		{ID: "c_0", Content: "text", Embedding: []float32{1, 2, 3}},
	}

	_, err := service.LoadSnapshot(context.Background(), "snap.json", false)

	assert.ErrorContains(t, err, "upsert snapshot")
}
