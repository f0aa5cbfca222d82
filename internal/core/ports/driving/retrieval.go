package driving

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// RetrievalService drives the chunk store: it owns initialization,
// the chunk -> embed -> index pipeline and ranked retrieval.
type RetrievalService interface {
	// Initialize opens the store once at startup. When migrated is
	// true the embedding scheme changed, all stored chunks were purged
	// and every document must be re-indexed.
	Initialize(ctx context.Context) (migrated bool, err error)

	// IndexDocument chunks, embeds and indexes one document.
	// Returns the number of chunks written.
	IndexDocument(ctx context.Context, doc domain.Document) (int, error)

	// Query embeds the question and returns the course's most similar
	// chunks, at most topK, similarity descending.
	Query(ctx context.Context, courseID, question string, topK int) (domain.SearchOutcome, error)

	// RemoveDocument deletes one document's chunks. Idempotent.
	RemoveDocument(ctx context.Context, documentID string) error

	// RemoveCourse deletes one course's chunks. Idempotent.
	RemoveCourse(ctx context.Context, courseID string) error

	// Reset deletes all stored chunks. Idempotent.
	Reset(ctx context.Context) error

	// Status reports store statistics.
	Status(ctx context.Context) (domain.StoreStats, error)

	// Close shuts the service and its store down.
	Close() error
}
