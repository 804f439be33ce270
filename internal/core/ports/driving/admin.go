package driving

import (
	"context"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// AdminService manages the hosted index lifecycle and readiness.
// This is used by the init and index commands.
type AdminService interface {
	// EnsureIndex creates the index if missing and waits for it to serve.
	EnsureIndex(ctx context.Context) error

	// DeleteIndex removes the index and everything in it.
	DeleteIndex(ctx context.Context) error

	// Stats reports the live index state.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Ready checks connectivity and that the index holds vectors.
	// An empty index returns stats plus domain.ErrIndexNotReady.
	Ready(ctx context.Context) (domain.IndexStats, error)
}
