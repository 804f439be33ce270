package services

import (
	"fmt"
	"sync"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService exposes the processing catalog. Every operation is a
// load-modify-save over the backing store; the mutex keeps concurrent
// callers within one process from losing writes.
type CatalogService struct {
	mu    sync.Mutex
	store driven.CatalogStore
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store driven.CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

// Add records a processing attempt. Entries are append-only; callers
// wanting replace semantics Remove first.
func (s *CatalogService) Add(entry domain.CatalogEntry) (domain.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.store.Load()
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("load catalog: %w", err)
	}

	added := catalog.Append(entry)

	if err := s.store.Save(catalog); err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("save catalog: %w", err)
	}

	return added, nil
}

// IsProcessed reports whether the URL has a successful entry.
func (s *CatalogService) IsProcessed(url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.store.Load()
	if err != nil {
		return false, fmt.Errorf("load catalog: %w", err)
	}

	return catalog.IsProcessed(url), nil
}

// Remove deletes all entries for the URL and reports how many.
func (s *CatalogService) Remove(url string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.store.Load()
	if err != nil {
		return 0, fmt.Errorf("load catalog: %w", err)
	}

	removed := catalog.Remove(url)
	if removed == 0 {
		return 0, nil
	}

	if err := s.store.Save(catalog); err != nil {
		return 0, fmt.Errorf("save catalog: %w", err)
	}

	return removed, nil
}

// List returns all entries in insertion order.
func (s *CatalogService) List() ([]domain.CatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return catalog.Documents, nil
}

// Summary aggregates catalog totals for display.
func (s *CatalogService) Summary() (domain.CatalogSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.store.Load()
	if err != nil {
		return domain.CatalogSummary{}, fmt.Errorf("load catalog: %w", err)
	}

	return catalog.Summarise(), nil
}
