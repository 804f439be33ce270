package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driven"
	"github.com/quaystone/advisor-cli/internal/normalisers/html"
	"github.com/quaystone/advisor-cli/internal/normalisers/plaintext"
)

// stubNormaliser records which normaliser handled a document.
type stubNormaliser struct {
	mimeTypes []string
	priority  int
	label     string
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.mimeTypes }
func (s *stubNormaliser) Priority() int                { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:     raw.URI,
			Title:   s.label,
			Content: string(raw.Content),
		},
	}, nil
}

func TestRegistry_DispatchByMIMEType(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/html"}, priority: 50, label: "html"})
	registry.Register(&stubNormaliser{mimeTypes: []string{"application/pdf"}, priority: 50, label: "pdf"})

	raw := &domain.RawDocument{URI: "https://example.com/page", MIMEType: "text/html", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "html", result.Document.Title)
}

func TestRegistry_HighestPriorityWins(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, label: "fallback"})
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 50, label: "specialised"})

	raw := &domain.RawDocument{URI: "u", MIMEType: "text/plain", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "specialised", result.Document.Title)
}

func TestRegistry_MIMEParametersStripped(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/html"}, priority: 50, label: "html"})

	raw := &domain.RawDocument{URI: "u", MIMEType: "text/html; charset=utf-8", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "html", result.Document.Title)
}

func TestRegistry_FallbackForUnknownMIME(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/plain"}, priority: 5, label: "fallback"})
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/html"}, priority: 50, label: "html"})

	raw := &domain.RawDocument{URI: "u", MIMEType: "application/octet-stream", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Document.Title)
}

func TestRegistry_NoNormaliser(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/html"}, priority: 50, label: "html"})

	raw := &domain.RawDocument{URI: "u", MIMEType: "application/zip", Content: []byte("x")}
	result, err := registry.Normalise(context.Background(), raw)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Nil(t, result)
}

func TestRegistry_NilDocument(t *testing.T) {
	registry := NewRegistry()

	result, err := registry.Normalise(context.Background(), nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/html", "application/xhtml+xml"}, priority: 50})
	registry.Register(&stubNormaliser{mimeTypes: []string{"text/html", "text/plain"}, priority: 5})

	types := registry.SupportedMIMETypes()
	assert.Equal(t, []string{"application/xhtml+xml", "text/html", "text/plain"}, types)
}

func TestRegistry_RealNormalisers(t *testing.T) {
	registry := NewRegistry()
	registry.Register(html.New())
	registry.Register(plaintext.New())

	raw := &domain.RawDocument{
		URI:      "https://university.example/fees.html",
		MIMEType: "text/html; charset=utf-8",
		Content:  []byte("<html><head><title>Fees</title></head><body><p>Pay by June.</p></body></html>"),
	}

	result, err := registry.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Fees", result.Document.Title)
	assert.Contains(t, result.Document.Content, "Pay by June.")
}

func TestRegistry_InterfaceCompliance(t *testing.T) {
	var _ driven.NormaliserRegistry = (*Registry)(nil)
}
