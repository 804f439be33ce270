// Package annotate provides a post-processor that stamps source
// attribution onto chunks. Retrieval returns chunk metadata only, so
// everything an answer needs to cite (URL, title, position) must travel
// with the vector.
package annotate

import (
	"context"
	"strconv"
	"time"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// Metadata keys stamped onto every chunk.
const (
	KeySourceURL   = "sourceUrl"
	KeyTitle       = "title"
	KeySourceType  = "sourceType"
	KeyChunkIndex  = "chunkIndex"
	KeyTotalChunks = "totalChunks"
	KeyProcessedAt = "processedAt"
	KeyContent     = "content"
)

// Processor annotates chunks with source metadata.
// It implements the PostProcessor interface.
type Processor struct {
	now func() time.Time
}

// New creates an annotate processor.
func New() *Processor {
	return &Processor{now: time.Now}
}

// NewWithClock creates an annotate processor with a fixed clock for tests.
func NewWithClock(now func() time.Time) *Processor {
	return &Processor{now: now}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "annotate"
}

// Process stamps attribution metadata onto every chunk. The chunk text is
// duplicated under the content key because the vector store returns only
// metadata on query.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	processedAt := p.now().UTC().Format(time.RFC3339)
	total := strconv.Itoa(len(chunks))

	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]string, 7)
		}
		m := chunks[i].Metadata
		m[KeySourceURL] = doc.URI
		m[KeyTitle] = doc.Title
		if st, ok := doc.Metadata[KeySourceType]; ok {
			m[KeySourceType] = st
		}
		m[KeyChunkIndex] = strconv.Itoa(i)
		m[KeyTotalChunks] = total
		m[KeyProcessedAt] = processedAt
		m[KeyContent] = chunks[i].Content
	}
	return chunks, nil
}
