// Package chunker provides a recursive character text splitting processor.
//
// Content is cut into base segments at the strongest boundary available
// inside the size budget (paragraph break, then newline, then sentence end,
// then word gap, then a rune-safe hard cut). Each emitted chunk after the
// first carries a tail of the previous segment as overlap and records its
// length, so the original text can be reconstructed exactly by stripping
// the recorded overlap from every chunk.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum chunk length in bytes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap carried between chunks.
const DefaultChunkOverlap = 200

// Boundary classes tried in order of preference. Earlier classes keep
// more structure intact.
var boundaries = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap length.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	pieces := p.Split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		piece.ID = uuid.New().String()
		chunks = append(chunks, piece)
	}
	return chunks, nil
}

// Split cuts text into chunks without assigning IDs. The concatenation of
// the first chunk and every later chunk's content past its Overlap equals
// the input exactly.
func (p *Processor) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	if len(text) <= p.chunkSize {
		return []domain.Chunk{{Content: text}}
	}

	// Base segments fit chunkSize minus the overlap that will be prepended,
	// keeping every emitted chunk within chunkSize.
	budget := p.chunkSize - p.overlap
	segments := split(text, budget)

	chunks := make([]domain.Chunk, 0, len(segments))
	for i, seg := range segments {
		if i == 0 {
			chunks = append(chunks, domain.Chunk{Content: seg})
			continue
		}
		tail := overlapTail(segments[i-1], p.overlap)
		chunks = append(chunks, domain.Chunk{
			Content: tail + seg,
			Overlap: len(tail),
		})
	}
	return chunks
}

// split cuts text into segments of at most budget bytes. Cuts land on the
// strongest boundary inside the window; segments concatenate back to text.
func split(text string, budget int) []string {
	var segments []string
	for len(text) > budget {
		cut := findCut(text, budget)
		segments = append(segments, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		segments = append(segments, text)
	}
	return segments
}

// findCut returns the cut position in (0, budget] for the next segment.
func findCut(text string, budget int) int {
	window := text[:budget]

	for _, sep := range boundaries {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx + len(sep)
		}
	}

	// No boundary in the window: hard cut, backed up to a rune start.
	cut := budget
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		// A single rune wider than the budget; emit it whole.
		_, size := utf8.DecodeRuneInString(text)
		return size
	}
	return cut
}

// overlapTail returns at most n trailing bytes of s, advanced to a rune
// start so the tail never begins mid-rune.
func overlapTail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
