package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required setting or credential is missing.
	// Commands report which variable or key to set.
	ErrNotConfigured = errors.New("not configured")

	// ErrUnsupportedType indicates a document format no normaliser handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrFetchFailed indicates a document could not be retrieved from its URL.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrExtractEmpty indicates a fetched document yielded no text content.
	ErrExtractEmpty = errors.New("no text extracted")

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	// Answer generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or unreachable. Nothing can be indexed or queried without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured
	// or unreachable.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrIndexNotReady indicates the vector index exists but holds no vectors.
	// Ingest or load documents before asking questions.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrDimensionMismatch indicates a vector's length differs from the
	// configured index dimension. Detected client-side before any upsert.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
