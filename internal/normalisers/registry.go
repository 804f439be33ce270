package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/logger"
)

// fallbackPriorityCeiling marks normalisers that accept any content.
// Normalisers at or below this priority are tried when no MIME match exists.
const fallbackPriorityCeiling = 9

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry selects normalisers by MIME type and priority.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.normalisers = append(r.normalisers, n)
}

// Normalise dispatches to the highest-priority normaliser supporting the
// document's MIME type. When nothing matches, fallback normalisers
// (priority <= 9) are tried before giving up.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	mime := baseMIMEType(raw.MIMEType)
	best := r.selectFor(mime)
	if best == nil {
		return nil, fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedType, mime)
	}

	logger.Debug("normalising %s as %s", raw.URI, mime)
	return best.Normalise(ctx, raw)
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	seen := make(map[string]bool)
	for _, n := range r.normalisers {
		for _, mt := range n.SupportedMIMETypes() {
			seen[mt] = true
		}
	}
	types := make([]string, 0, len(seen))
	for mt := range seen {
		types = append(types, mt)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) selectFor(mime string) driven.Normaliser {
	var best driven.Normaliser
	for _, n := range r.normalisers {
		if !supports(n, mime) {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	if best != nil {
		return best
	}

	// No exact match: fall back to generic text handling.
	for _, n := range r.normalisers {
		if n.Priority() > fallbackPriorityCeiling {
			continue
		}
		if best == nil || n.Priority() > best.Priority() {
			best = n
		}
	}
	return best
}

func supports(n driven.Normaliser, mime string) bool {
	for _, mt := range n.SupportedMIMETypes() {
		if mt == mime {
			return true
		}
	}
	return false
}

// baseMIMEType strips parameters ("text/html; charset=utf-8" -> "text/html").
func baseMIMEType(mime string) string {
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = mime[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}
