package domain

// Document represents a fetched document after text extraction.
// It is the canonical representation between normalisation and chunking.
type Document struct {
	// URI is the source location the document was fetched from.
	URI string

	// Title is the human-readable title. Falls back to the URI when the
	// document carries none.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Metadata contains source key-value pairs carried through the pipeline.
	Metadata map[string]string
}

// Chunk represents one unit of indexed text within a document.
// Documents are split into overlapping chunks before embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk. Ingested documents use
	// UUIDs; scraped pages use "<url>_<index>".
	ID string `json:"id"`

	// Content is the text content of this chunk, including the overlap
	// prefix repeated from the previous chunk.
	Content string `json:"content"`

	// Overlap is the byte length of the prefix shared with the previous
	// chunk. Stripping it from every chunk after the first reconstructs
	// the original document text exactly.
	Overlap int `json:"overlap,omitempty"`

	// Metadata carries source attribution (sourceUrl, title, sourceType,
	// chunkIndex, totalChunks, processedAt).
	Metadata map[string]string `json:"metadata,omitempty"`

	// Embedding is the vector representation, populated after the embed
	// stage. Empty until then.
	Embedding []float32 `json:"embedding,omitempty"`
}

// NewText reports the chunk content with the overlap prefix removed.
// Concatenating NewText over a document's chunks yields the original text.
func (c Chunk) NewText() string {
	if c.Overlap <= 0 || c.Overlap > len(c.Content) {
		return c.Content
	}
	return c.Content[c.Overlap:]
}
