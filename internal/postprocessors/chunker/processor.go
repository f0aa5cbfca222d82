// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Processor splits document content into fixed-size overlapping chunks.
// It tracks markdown headings and form-feed page breaks so each chunk
// carries the heading and page it starts under.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
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

// marker records a heading or page boundary at a byte offset.
type marker struct {
	offset int
	value  string
}

// Process splits the document content into chunks. Chunk ids are
// derived from the document id and chunk position, so re-indexing the
// same document replaces its chunks instead of duplicating them.
func (p *Processor) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc.Content == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	content := doc.Content
	contentLen := len(content)

	headings := scanHeadings(content)
	pageBreaks := scanPageBreaks(content)
	hasPages := len(pageBreaks) > 0

	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	// Estimate number of chunks
	estimatedChunks := (contentLen / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	position := 0
	start := 0

	for start < contentLen {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + p.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunk := domain.Chunk{
			ID:           chunkID(doc.ID, position),
			CourseID:     doc.CourseID,
			DocumentID:   doc.ID,
			DocumentType: doc.Type,
			Position:     position,
			Heading:      headingAt(headings, start),
			Text:         strings.ReplaceAll(content[start:end], "\f", "\n"),
			CreatedAt:    createdAt,
		}
		if hasPages {
			page := pageAt(pageBreaks, start)
			chunk.PageNumber = &page
		}

		chunks = append(chunks, chunk)
		position++

		// Move start forward by (chunkSize - overlap)
		start += p.chunkSize - p.overlap

		// Avoid infinite loop for edge cases
		if p.chunkSize <= p.overlap {
			break
		}
	}

	return chunks, nil
}

// chunkID derives a stable chunk id from the document id and position.
// The document id (itself a UUID) is the SHA1 namespace; unparseable
// ids fall back to a fixed namespace.
func chunkID(documentID string, position int) string {
	ns, err := uuid.Parse(documentID)
	if err != nil {
		ns = uuid.NameSpaceOID
	}
	return uuid.NewSHA1(ns, []byte(fmt.Sprintf("chunk:%d", position))).String()
}

// scanHeadings records markdown ATX headings (1-6 '#' followed by a
// space) and the offset where each takes effect.
func scanHeadings(content string) []marker {
	var markers []marker

	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		trimmed := strings.TrimPrefix(strings.TrimSuffix(line, "\n"), "\f")
		if heading, ok := parseHeading(trimmed); ok {
			markers = append(markers, marker{offset: offset, value: heading})
		}
		offset += len(line)
	}

	return markers
}

// parseHeading returns the heading text of a markdown ATX heading line.
func parseHeading(line string) (string, bool) {
	hashes := 0
	for hashes < len(line) && line[hashes] == '#' {
		hashes++
	}
	if hashes == 0 || hashes > 6 || hashes == len(line) || line[hashes] != ' ' {
		return "", false
	}

	heading := strings.TrimSpace(line[hashes+1:])
	if heading == "" {
		return "", false
	}
	return heading, true
}

// scanPageBreaks records the offsets of form-feed page separators.
func scanPageBreaks(content string) []int {
	var offsets []int
	for i := 0; i < len(content); i++ {
		if content[i] == '\f' {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// headingAt returns the nearest heading at or before the offset.
func headingAt(headings []marker, offset int) string {
	idx := sort.Search(len(headings), func(i int) bool {
		return headings[i].offset > offset
	})
	if idx == 0 {
		return ""
	}
	return headings[idx-1].value
}

// pageAt returns the 1-based page number at the offset.
func pageAt(pageBreaks []int, offset int) int {
	return 1 + sort.SearchInts(pageBreaks, offset)
}
