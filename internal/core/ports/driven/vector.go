package driven

import (
	"context"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// VectorStore is the hosted vector index holding the knowledge base.
// Implementations batch upserts internally and pace remote calls; callers
// hand over the full vector set in one call.
type VectorStore interface {
	// EnsureIndex creates the index if it does not exist and waits until
	// it is ready to serve. Idempotent.
	EnsureIndex(ctx context.Context) error

	// DeleteIndex removes the index and all stored vectors.
	DeleteIndex(ctx context.Context) error

	// Upsert writes vectors to the index, batching internally.
	// Every vector must match the configured dimension; a mismatch fails
	// before any remote call with domain.ErrDimensionMismatch.
	Upsert(ctx context.Context, vectors []domain.Vector) error

	// Query returns the topK nearest stored vectors with their metadata.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Match, error)

	// Stats reports the index vector count and dimension.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Close releases resources.
	Close() error
}
