package driving

import (
	"context"
)

// ScrapeReport summarises a scrape run.
type ScrapeReport struct {
	// Pages is how many URLs produced content.
	Pages int

	// Chunks is the total chunk count written to the snapshot.
	Chunks int

	// ZeroVectors counts chunks whose embedding failed and was replaced
	// by a zero vector.
	ZeroVectors int

	// SnapshotPath is where the chunks were written.
	SnapshotPath string
}

// ScrapeService builds snapshots from web pages and loads them into the
// vector store. Unlike ingest, a failed embedding does not fail the page:
// the chunk gets a zero vector and scraping continues.
type ScrapeService interface {
	// Scrape fetches the pages, chunks their main content, embeds each
	// chunk and writes everything to a snapshot file.
	Scrape(ctx context.Context, urls []string, snapshotPath string) (*ScrapeReport, error)

	// LoadSnapshot upserts a previously scraped snapshot into the vector
	// store. With reEmbed set, zero vectors are embedded again first.
	LoadSnapshot(ctx context.Context, snapshotPath string, reEmbed bool) (int, error)
}
