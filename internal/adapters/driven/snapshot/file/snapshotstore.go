package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists scraped chunks as a JSON array on disk.
// A snapshot captures a scrape run (embeddings included) so it can be
// loaded into the vector store later or inspected offline.
type SnapshotStore struct{}

// NewSnapshotStore creates a snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Save writes the chunks to path as a pretty-printed JSON array. The
// parent directory is created if missing.
func (s *SnapshotStore) Save(path string, chunks []domain.Chunk) error {
	if path == "" {
		return fmt.Errorf("%w: snapshot path is empty", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	// An empty run still writes a valid snapshot, not "null".
	if chunks == nil {
		chunks = []domain.Chunk{}
	}

	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// Load reads a snapshot written by Save. A missing file is an error:
// loading is always an explicit user action on a named file.
func (s *SnapshotStore) Load(path string) ([]domain.Chunk, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: snapshot path is empty", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return chunks, nil
}
