package driven

import "github.com/quaystone/advisor-cli/internal/core/domain"

// CatalogStore persists the processing catalog.
// Implementations rewrite the whole catalog on save; entries are small and
// the file doubles as a human-readable record.
type CatalogStore interface {
	// Load reads the catalog. A missing file yields an empty catalog,
	// not an error; a malformed file yields an error.
	Load() (*domain.Catalog, error)

	// Save overwrites the catalog wholesale.
	Save(catalog *domain.Catalog) error

	// Path returns the catalog file location.
	Path() string
}
