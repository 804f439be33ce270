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

// Ensure ScrapeService implements the interface.
var _ driving.ScrapeService = (*ScrapeService)(nil)

// ScrapeService builds snapshots from web pages and loads them into the
// vector store. Unlike ingest, an embedding failure does not fail the page:
// the chunk keeps a zero vector so the snapshot stays loadable and the gap
// can be repaired later with a re-embed.
type ScrapeService struct {
	fetcher   driven.Fetcher
	registry  driven.NormaliserRegistry
	pipeline  driven.PostProcessorPipeline
	embedding driven.EmbeddingService
	vectors   driven.VectorStore
	snapshots driven.SnapshotStore
}

// NewScrapeService creates a new scrape service.
func NewScrapeService(
	fetcher driven.Fetcher,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedding driven.EmbeddingService,
	vectors driven.VectorStore,
	snapshots driven.SnapshotStore,
) *ScrapeService {
	return &ScrapeService{
		fetcher:   fetcher,
		registry:  registry,
		pipeline:  pipeline,
		embedding: embedding,
		vectors:   vectors,
		snapshots: snapshots,
	}
}

// Scrape fetches the pages, chunks their main content, embeds each chunk
// and writes everything to a snapshot file. A page that fails to fetch or
// extract is skipped with a warning; the run fails only if no page
// produces content.
func (s *ScrapeService) Scrape(ctx context.Context, urls []string, snapshotPath string) (*driving.ScrapeReport, error) {
	if snapshotPath == "" {
		return nil, fmt.Errorf("%w: empty snapshot path", domain.ErrInvalidInput)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no URLs to scrape", domain.ErrInvalidInput)
	}

	report := &driving.ScrapeReport{SnapshotPath: snapshotPath}
	var all []domain.Chunk

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}

		logger.Section("Scraping " + url)

		chunks, err := s.scrapePage(ctx, url)
		if err != nil {
			logger.Warn("Skipping %s: %v", url, err)
			continue
		}

		for i := range chunks {
			embedding, err := s.embedding.Embed(ctx, chunks[i].Content)
			if err != nil {
				// A zero vector keeps the chunk addressable; re-embed
				// repairs it later.
				logger.Warn("Embedding failed for %s: %v", chunks[i].ID, err)
				embedding = make([]float32, s.embedding.Dimensions())
				report.ZeroVectors++
			}
			chunks[i].Embedding = embedding
		}

		all = append(all, chunks...)
		report.Pages++
		logger.Info("Scraped %s: %d chunks", url, len(chunks))
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("scrape: %w: no page produced content", domain.ErrExtractEmpty)
	}

	if err := s.snapshots.Save(snapshotPath, all); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	report.Chunks = len(all)
	logger.Info("Snapshot written to %s: %d pages, %d chunks, %d zero vectors",
		snapshotPath, report.Pages, report.Chunks, report.ZeroVectors)

	return report, nil
}

// LoadSnapshot upserts a previously scraped snapshot into the vector store.
// With reEmbed set, zero vectors are embedded again first and the repaired
// snapshot is written back.
func (s *ScrapeService) LoadSnapshot(ctx context.Context, snapshotPath string, reEmbed bool) (int, error) {
	chunks, err := s.snapshots.Load(snapshotPath)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: snapshot %s holds no chunks", domain.ErrInvalidInput, snapshotPath)
	}

	if reEmbed {
		repaired := 0
		for i := range chunks {
			if !isZeroVector(chunks[i].Embedding) {
				continue
			}
			embedding, err := s.embedding.Embed(ctx, chunks[i].Content)
			if err != nil {
				return 0, fmt.Errorf("re-embed %s: %w", chunks[i].ID, err)
			}
			chunks[i].Embedding = embedding
			repaired++
		}
		if repaired > 0 {
			if err := s.snapshots.Save(snapshotPath, chunks); err != nil {
				return 0, fmt.Errorf("save repaired snapshot: %w", err)
			}
			logger.Info("Re-embedded %d zero vectors", repaired)
		}
	}

	vectors := make([]domain.Vector, len(chunks))
	for i, chunk := range chunks {
		embedding := chunk.Embedding
		if len(embedding) == 0 {
			// Snapshots from older runs may omit failed embeddings
			// entirely; substitute so the upsert dimension holds.
			embedding = make([]float32, s.embedding.Dimensions())
		}
		vectors[i] = domain.Vector{
			ID:       chunk.ID,
			Values:   embedding,
			Metadata: chunk.Metadata,
		}
	}

	if err := s.vectors.Upsert(ctx, vectors); err != nil {
		return 0, fmt.Errorf("upsert snapshot: %w", err)
	}

	logger.Info("Loaded %d vectors from %s", len(vectors), snapshotPath)
	return len(vectors), nil
}

// scrapePage runs fetch, extract and split for one page. Chunk IDs are
// derived from the URL so a re-scrape overwrites rather than duplicates.
func (s *ScrapeService) scrapePage(ctx context.Context, url string) ([]domain.Chunk, error) {
	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise: %w", err)
	}

	doc := result.Document
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("post-process: %w", err)
	}
	if len(chunks) == 0 {
		return nil, domain.ErrExtractEmpty
	}

	for i := range chunks {
		chunks[i].ID = fmt.Sprintf("%s_%d", url, i)
	}

	return chunks, nil
}

// isZeroVector reports whether the embedding is absent or all zeros.
func isZeroVector(embedding []float32) bool {
	for _, v := range embedding {
		if v != 0 {
			return false
		}
	}
	return true
}
