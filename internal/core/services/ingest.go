package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
	"github.com/quaystone/advisor-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService coordinates the document processing pipeline.
type IngestService struct {
	fetcher   driven.Fetcher
	registry  driven.NormaliserRegistry
	pipeline  driven.PostProcessorPipeline
	embedding driven.EmbeddingService
	vectors   driven.VectorStore
	catalog   driving.CatalogService
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	fetcher driven.Fetcher,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedding driven.EmbeddingService,
	vectors driven.VectorStore,
	catalog driving.CatalogService,
) *IngestService {
	return &IngestService{
		fetcher:   fetcher,
		registry:  registry,
		pipeline:  pipeline,
		embedding: embedding,
		vectors:   vectors,
		catalog:   catalog,
	}
}

// ProcessOne runs the pipeline for a single document. Every failure is
// catalogued (Success=false) and reported in the result; nothing panics
// and nothing prints.
//
//nolint:gocyclo // Pipeline orchestration with necessary sequential steps
func (s *IngestService) ProcessOne(ctx context.Context, url, title string, force bool) domain.IngestResult {
	url = strings.TrimSpace(url)
	if url == "" {
		// Nothing addressable to catalogue.
		return domain.IngestResult{
			Status: domain.IngestFailed,
			Err:    fmt.Errorf("%w: empty URL", domain.ErrInvalidInput),
		}
	}

	logger.Section("Processing " + url)

	// 1. CHECK THE CATALOG (skip unless forced; force removes old entries)
	if force {
		removed, err := s.catalog.Remove(url)
		if err != nil {
			return s.recordFailure(url, title, fmt.Errorf("remove catalog entries: %w", err))
		}
		if removed > 0 {
			logger.Info("Force: removed %d catalog entries for %s", removed, url)
		}
	} else {
		processed, err := s.catalog.IsProcessed(url)
		if err != nil {
			return s.recordFailure(url, title, fmt.Errorf("check catalog: %w", err))
		}
		if processed {
			logger.Info("Skipping %s: already processed (use force to reprocess)", url)
			return domain.IngestResult{URL: url, Title: title, Status: domain.IngestSkipped}
		}
	}

	// 2. FETCH
	raw, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return s.recordFailure(url, title, fmt.Errorf("fetch: %w", err))
	}
	logger.Debug("Fetched %d bytes (%s)", len(raw.Content), raw.MIMEType)

	// 3. NORMALISE (produces Document with Content)
	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return s.recordFailure(url, title, fmt.Errorf("normalise: %w", err))
	}
	doc := result.Document
	if title != "" {
		// A caller-provided title wins over the extracted one.
		doc.Title = title
	}
	logger.Debug("Extracted %d characters, title %q", len(doc.Content), doc.Title)

	// 4. RUN POST-PROCESSOR PIPELINE (produces Chunks)
	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return s.recordFailure(url, doc.Title, fmt.Errorf("post-process: %w", err))
	}
	if len(chunks) == 0 {
		return s.recordFailure(url, doc.Title, fmt.Errorf("post-process: %w", domain.ErrExtractEmpty))
	}
	logger.Debug("Split into %d chunks", len(chunks))

	// 5. GENERATE EMBEDDINGS
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	embeddings, err := s.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return s.recordFailure(url, doc.Title, fmt.Errorf("embed: %w", err))
	}
	if len(embeddings) != len(chunks) {
		return s.recordFailure(url, doc.Title,
			fmt.Errorf("embed: got %d embeddings for %d chunks", len(embeddings), len(chunks)))
	}
	logger.Debug("Embedded %d chunks (%d dimensions)", len(embeddings), s.embedding.Dimensions())

	// 6. UPSERT TO VECTOR STORE
	vectors := make([]domain.Vector, len(chunks))
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
		vectors[i] = domain.Vector{
			ID:       chunks[i].ID,
			Values:   embeddings[i],
			Metadata: chunks[i].Metadata,
		}
	}
	if err := s.vectors.Upsert(ctx, vectors); err != nil {
		return s.recordFailure(url, doc.Title, fmt.Errorf("upsert: %w", err))
	}
	logger.Info("Indexed %s: %d chunks", url, len(chunks))

	// 7. CATALOGUE THE SUCCESS
	entry := domain.CatalogEntry{
		URL:         url,
		Title:       doc.Title,
		ProcessedAt: time.Now().UTC(),
		ChunkCount:  len(chunks),
		Success:     true,
	}
	if _, err := s.catalog.Add(entry); err != nil {
		// The vectors are live but the local record is not; surface it so
		// the operator can force-reprocess once the catalog is writable.
		return domain.IngestResult{
			URL:    url,
			Title:  doc.Title,
			Status: domain.IngestFailed,
			Err:    fmt.Errorf("catalogue: %w", err),
		}
	}

	return domain.IngestResult{
		URL:        url,
		Title:      doc.Title,
		Status:     domain.IngestProcessed,
		ChunkCount: len(chunks),
	}
}

// ProcessMany runs ProcessOne over the batch sequentially. One document's
// failure never aborts the batch; cancellation fails the remaining
// documents without touching the catalog.
func (s *IngestService) ProcessMany(ctx context.Context, docs []domain.DocumentRequest, force bool) *domain.IngestReport {
	report := &domain.IngestReport{}

	for i, doc := range docs {
		if ctx.Err() != nil {
			report.Add(domain.IngestResult{
				URL:    doc.URL,
				Title:  doc.Title,
				Status: domain.IngestFailed,
				Err:    ctx.Err(),
			})
			continue
		}

		logger.Info("[%d/%d] %s", i+1, len(docs), doc.URL)
		report.Add(s.ProcessOne(ctx, doc.URL, doc.Title, force))
	}

	logger.Info("Batch complete: %d processed, %d skipped, %d failed",
		report.Processed, report.Skipped, report.Failed)
	return report
}

// recordFailure catalogues a failed attempt and builds the failed result.
func (s *IngestService) recordFailure(url, title string, cause error) domain.IngestResult {
	logger.Warn("Failed to process %s: %v", url, cause)

	entry := domain.CatalogEntry{
		URL:         url,
		Title:       title,
		ProcessedAt: time.Now().UTC(),
		Success:     false,
	}
	if _, err := s.catalog.Add(entry); err != nil {
		logger.Warn("Failed to catalogue failure for %s: %v", url, err)
	}

	return domain.IngestResult{
		URL:    url,
		Title:  title,
		Status: domain.IngestFailed,
		Err:    cause,
	}
}
