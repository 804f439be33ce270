package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is a file-based implementation of driven.CatalogStore.
// The catalog is a single pretty-printed JSON document, rewritten
// wholesale on every save. World-readable: it records what was
// processed, never credentials.
type CatalogStore struct {
	mu       sync.Mutex
	filePath string
}

// NewCatalogStore creates a catalog store at path. If path is empty,
// defaults to ~/.advisor/catalog.json. The parent directory is created
// if missing.
func NewCatalogStore(path string) (*CatalogStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".advisor", "catalog.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	return &CatalogStore{filePath: path}, nil
}

// Load reads the catalog from disk. A missing file yields an empty
// catalog so first runs need no setup step; a malformed file is an
// error rather than silent data loss.
func (s *CatalogStore) Load() (*domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &domain.Catalog{}, nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	return &catalog, nil
}

// Save overwrites the catalog file.
func (s *CatalogStore) Save(catalog *domain.Catalog) error {
	if catalog == nil {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}

	return nil
}

// Path returns the catalog file path.
func (s *CatalogStore) Path() string {
	return s.filePath
}
