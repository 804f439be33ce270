package domain

// Passage is a chunk retrieved from the vector store for a question,
// with the source attribution a reader needs to verify the answer.
type Passage struct {
	// Title is the source document title.
	Title string

	// URL is the source document location.
	URL string

	// Content is the chunk text that matched.
	Content string

	// Score is the similarity score reported by the vector store.
	Score float32
}

// Answer is the result of a retrieval-augmented question.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources are the passages the answer was grounded on,
	// ordered by descending score.
	Sources []Passage
}

// Match is a single vector store query hit.
type Match struct {
	// ID is the stored vector's identifier.
	ID string

	// Score is the similarity score (cosine, higher is closer).
	Score float32

	// Metadata is the string metadata stored alongside the vector.
	Metadata map[string]string
}

// Vector pairs an embedding with its identity and metadata for upsert.
type Vector struct {
	// ID is the vector's identifier in the index.
	ID string

	// Values is the embedding.
	Values []float32

	// Metadata is stored alongside the vector and returned on query.
	Metadata map[string]string
}

// IndexStats summarises the remote index state.
type IndexStats struct {
	// VectorCount is the total number of stored vectors.
	VectorCount int

	// Dimension is the index's configured vector dimension.
	Dimension int
}

// Ready reports whether the index holds any vectors. An existing but empty
// index is not ready: questions would retrieve nothing.
func (s IndexStats) Ready() bool {
	return s.VectorCount > 0
}
