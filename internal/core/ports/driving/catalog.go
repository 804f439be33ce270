package driving

import "github.com/quaystone/advisor-cli/internal/core/domain"

// CatalogService exposes the processing catalog to external actors.
type CatalogService interface {
	// Add records a processing attempt. Entries are append-only; callers
	// wanting replace semantics Remove first.
	Add(entry domain.CatalogEntry) (domain.CatalogEntry, error)

	// IsProcessed reports whether the URL has a successful entry.
	IsProcessed(url string) (bool, error)

	// Remove deletes all entries for the URL and reports how many.
	Remove(url string) (int, error)

	// List returns all entries in insertion order.
	List() ([]domain.CatalogEntry, error)

	// Summary aggregates catalog totals for display.
	Summary() (domain.CatalogSummary, error)
}
