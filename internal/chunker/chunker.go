// Package chunker provides a deterministic overlapping text splitter.
// Chunk identity is implicit (file ID + position), so splitting must be
// byte-for-byte reproducible: identical input and configuration always
// yield identical chunk boundaries and offsets.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docsync/internal/core/domain"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping bytes.
const DefaultChunkOverlap = 200

// boundaries are tried largest-first when snapping a chunk end:
// paragraph, then sentence, then word. A chunk that contains none of
// them inside its window falls back to a fixed-width cut.
var boundaries = []string{"\n\n", ". ", "! ", "? ", "\n", " "}

// Splitter splits extracted document text into overlapping chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for forward progress
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split splits text into ordered chunks of at most the configured size,
// each repeating up to the configured overlap of trailing context from
// its predecessor. Whitespace-only input yields no chunks. FileID and
// Metadata are left for the caller to fill in.
func (s *Splitter) Split(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	total := len(text)
	chunks := make([]domain.Chunk, 0, total/(s.chunkSize-s.overlap)+1)

	start := 0
	position := 0
	for start < total {
		end := start + s.chunkSize
		if end >= total {
			end = total
		} else {
			end = s.snap(text, start, end)
		}

		chunks = append(chunks, domain.Chunk{
			Position:    position,
			Content:     text[start:end],
			StartOffset: start,
		})
		position++

		if end == total {
			break
		}

		next := alignRuneStart(text, end-s.overlap)
		if next <= start {
			// Overlap would stall; move on without it
			next = end
		}
		start = next
	}

	return chunks
}

// snap moves a tentative chunk end back to the best boundary inside the
// window. Boundaries are only honoured in the second half of the window
// so a stray early newline cannot degenerate chunk sizes. The boundary
// separator stays with the leading chunk.
func (s *Splitter) snap(text string, start, end int) int {
	end = alignRuneStart(text, end)
	floor := start + s.chunkSize/2

	for _, sep := range boundaries {
		if i := strings.LastIndex(text[floor:end], sep); i >= 0 {
			return floor + i + len(sep)
		}
	}
	return end
}

// alignRuneStart moves pos back to the nearest UTF-8 rune start so a
// fixed-width cut never splits a multi-byte sequence.
func alignRuneStart(text string, pos int) int {
	for pos > 0 && pos < len(text) && !utf8.RuneStart(text[pos]) {
		pos--
	}
	return pos
}
