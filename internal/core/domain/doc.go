// Package domain defines the core business entities for the advisor.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - RawDocument: Opaque bytes fetched from a URL
//   - Document: Extracted text before chunking
//   - Chunk: An embeddable unit with overlap bookkeeping
//   - Catalog/CatalogEntry: The local processing record
//   - Answer/Passage: A grounded answer with its sources
//   - Session: An explicit chat transcript
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse. Its only import beyond the standard library
// is the UUID generator used for session and chunk identity.
package domain
