package domain

// RawDocument represents opaque bytes fetched from a URL.
// It is the fetcher's output before normalisation.
type RawDocument struct {
	// URI is the URL the document was fetched from.
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains fetch-level key-value pairs (e.g. requested title).
	Metadata map[string]string
}

// SourceType labels where a chunk's text came from.
type SourceType string

const (
	// SourcePDF marks chunks extracted from PDF documents.
	SourcePDF SourceType = "pdf"

	// SourceWeb marks chunks extracted from web pages.
	SourceWeb SourceType = "web"
)
