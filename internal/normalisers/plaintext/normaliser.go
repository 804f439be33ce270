// Package plaintext normalises plain-text documents. It also acts as the
// fallback for content no other normaliser claims.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/csv",
	}
}

// Priority returns the selection priority. Low, so format-aware
// normalisers win when they support the same MIME type.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise converts a raw document to a normalised document. The Content
// field carries the full text; chunking happens later in the pipeline.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: no text in %s", domain.ErrExtractEmpty, raw.URI)
	}

	metadata := copyMetadata(raw.Metadata)
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "text"
	metadata["sourceType"] = string(domain.SourceWeb)

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:      raw.URI,
			Title:    extractTitleFromMetadataOrURI(raw),
			Content:  content,
			Metadata: metadata,
		},
	}, nil
}

// extractTitleFromMetadataOrURI checks metadata for a title first, then
// falls back to the URI.
func extractTitleFromMetadataOrURI(raw *domain.RawDocument) string {
	if title := raw.Metadata["title"]; title != "" {
		return title
	}
	return extractTitle(raw.URI)
}

// extractTitle extracts a human-readable title from a URI.
func extractTitle(uri string) string {
	filename := filepath.Base(uri)

	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	if filename == "" || filename == "." || filename == "/" {
		return "Untitled"
	}
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+3)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
