package services

import (
	"context"
	"fmt"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
	"github.com/quaystone/advisor-cli/internal/logger"
)

// Ensure AdminService implements the interface.
var _ driving.AdminService = (*AdminService)(nil)

// AdminService manages the hosted index lifecycle.
type AdminService struct {
	vectors driven.VectorStore
}

// NewAdminService creates a new admin service.
func NewAdminService(vectors driven.VectorStore) *AdminService {
	return &AdminService{vectors: vectors}
}

// EnsureIndex creates the index if missing and waits for it to serve.
func (s *AdminService) EnsureIndex(ctx context.Context) error {
	logger.Section("Ensuring index exists")

	if err := s.vectors.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	logger.Info("Index ready")
	return nil
}

// DeleteIndex removes the index and everything in it.
func (s *AdminService) DeleteIndex(ctx context.Context) error {
	if err := s.vectors.DeleteIndex(ctx); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}

	logger.Info("Index deleted")
	return nil
}

// Stats reports the live index state.
func (s *AdminService) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats, err := s.vectors.Stats(ctx)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("index stats: %w", err)
	}
	return stats, nil
}

// Ready checks connectivity and that the index holds vectors. An empty
// index returns its stats alongside domain.ErrIndexNotReady so callers can
// tell "unreachable" from "reachable but unpopulated".
func (s *AdminService) Ready(ctx context.Context) (domain.IndexStats, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return domain.IndexStats{}, err
	}

	if !stats.Ready() {
		return stats, fmt.Errorf("%w: index holds no vectors", domain.ErrIndexNotReady)
	}

	return stats, nil
}
