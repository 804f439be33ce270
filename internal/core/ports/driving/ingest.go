package driving

import (
	"context"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// IngestService coordinates the document processing pipeline:
// fetch, extract, chunk, embed, upsert, catalogue.
type IngestService interface {
	// ProcessOne runs the pipeline for a single document. Failures are
	// catalogued and reported in the result, never panicked or printed.
	// With force set, existing catalog entries for the URL are removed
	// and the document is reprocessed (upsert-by-URL).
	ProcessOne(ctx context.Context, url, title string, force bool) domain.IngestResult

	// ProcessMany runs ProcessOne over the batch sequentially. One
	// document's failure never aborts the batch.
	ProcessMany(ctx context.Context, docs []domain.DocumentRequest, force bool) *domain.IngestReport
}
