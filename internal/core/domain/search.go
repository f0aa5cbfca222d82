package domain

import "fmt"

// SearchResult represents a single similarity hit.
type SearchResult struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Text is the chunk's text.
	Text string

	// DocumentID is the parent document.
	DocumentID string

	// DocumentType classifies the parent document.
	DocumentType DocumentType

	// PageNumber is the page the chunk starts on, if known.
	PageNumber *int

	// Heading is the nearest preceding heading, if any.
	Heading string

	// Similarity is the cosine similarity to the query, range [-1, 1].
	Similarity float64
}

// SourceLabel derives a human-readable citation label from the hit's
// heading and page number, falling back to a generic label when
// neither is available.
func (r SearchResult) SourceLabel() string {
	switch {
	case r.Heading != "" && r.PageNumber != nil:
		return fmt.Sprintf("%s (p. %d)", r.Heading, *r.PageNumber)
	case r.Heading != "":
		return r.Heading
	case r.PageNumber != nil:
		return fmt.Sprintf("Page %d", *r.PageNumber)
	default:
		return "Course material"
	}
}

// SearchOutcome is the full result of a similarity search.
type SearchOutcome struct {
	// Results is ordered by similarity descending; ties are broken by
	// ascending chunk ID. Length is at most the requested topK.
	Results []SearchResult

	// Skipped counts rows whose stored embedding did not match the
	// active scheme's dimension and were excluded from scoring. Such
	// rows are expected mid-migration and are never an error.
	Skipped int
}

// CourseCount reports the chunk count for one course.
type CourseCount struct {
	CourseID string
	Chunks   int
}

// StoreStats describes the current state of the chunk store.
type StoreStats struct {
	// Chunks is the total number of stored chunks.
	Chunks int

	// Courses is the per-course chunk breakdown.
	Courses []CourseCount

	// EmbeddingVersion is the scheme version recorded in the store.
	EmbeddingVersion int

	// SizeBytes is the approximate database file size.
	SizeBytes int64
}
