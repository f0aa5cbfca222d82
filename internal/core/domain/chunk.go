package domain

import "time"

// Document represents a course document before chunking.
// It is the canonical representation handed to the chunker.
type Document struct {
	// ID is the unique identifier for the document (UUID string).
	ID string

	// CourseID links the document to the course it belongs to (UUID string).
	CourseID string

	// Type classifies the document.
	Type DocumentType

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// CreatedAt is when the document was first indexed.
	CreatedAt time.Time
}

// Chunk represents a bounded span of extracted document text,
// the retrievable unit of the store.
type Chunk struct {
	// ID is the unique identifier for the chunk. Indexing a chunk
	// with an existing ID replaces that chunk and its embedding.
	ID string

	// CourseID scopes the chunk to one course. Searches never cross
	// course boundaries.
	CourseID string

	// DocumentID links to the parent Document.
	DocumentID string

	// DocumentType classifies the parent document.
	DocumentType DocumentType

	// Position is the ordinal position within the document.
	Position int

	// PageNumber is the page the chunk starts on, if known.
	PageNumber *int

	// Heading is the nearest preceding heading, if any.
	Heading string

	// Text is the chunk's extracted text.
	Text string

	// CreatedAt is when the chunk was indexed.
	CreatedAt time.Time
}

// EmbeddingScheme identifies the embedding model configuration that
// produced stored vectors. Version is bumped whenever the scheme
// changes; stored data from a different version is incompatible and
// must be purged and re-indexed.
type EmbeddingScheme struct {
	// Version is the integer scheme identifier recorded in the store.
	Version int

	// Dimension is the fixed vector length of the scheme.
	Dimension int
}
