package driven

import (
	"context"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// Fetcher retrieves raw document bytes from a URL.
// Implementations handle timeouts, retries and content-type detection;
// they never interpret the payload.
type Fetcher interface {
	// Fetch downloads the document at url.
	// A non-2xx terminal status or exhausted retries yields an error
	// wrapping domain.ErrFetchFailed.
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}
