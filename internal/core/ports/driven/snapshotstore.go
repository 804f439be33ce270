package driven

import "github.com/quaystone/advisor-cli/internal/core/domain"

// SnapshotStore persists scraped chunks (embeddings included) so a scrape
// run can be loaded into the vector store later, or inspected offline.
type SnapshotStore interface {
	// Save writes the chunks to path as a JSON array.
	Save(path string, chunks []domain.Chunk) error

	// Load reads a snapshot written by Save.
	Load(path string) ([]domain.Chunk, error)
}
