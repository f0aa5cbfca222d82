package driven

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// ChunkStore persists chunks with their embeddings and serves ranked
// similarity searches over them. Implementations serialize all
// operations: at most one runs at a time, in submission order, so a
// search submitted after an indexing call observes its effects.
type ChunkStore interface {
	// Initialize opens the durable store, creates the schema if absent
	// and reconciles the recorded embedding version against the active
	// scheme. When the versions differ all stored chunks are purged
	// transactionally and migrated is true; the caller must re-index.
	// Initialize is idempotent.
	Initialize(ctx context.Context) (migrated bool, err error)

	// Index upserts chunk/embedding pairs as one atomic batch.
	// chunks and embeddings must have equal length
	// (domain.ErrArgumentMismatch otherwise; nothing is written).
	// Any row failure rolls back the whole batch.
	Index(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32, courseID string) error

	// Search scans the course's chunks and returns at most topK
	// results ordered by cosine similarity descending, ties broken by
	// ascending chunk ID. Rows whose stored embedding does not match
	// the active scheme's dimension are skipped and counted.
	Search(ctx context.Context, query []float32, courseID string, topK int) (domain.SearchOutcome, error)

	// DeleteDocument removes all chunks of one document. Idempotent.
	DeleteDocument(ctx context.Context, documentID string) error

	// DeleteCourse removes all chunks of one course. Idempotent.
	DeleteCourse(ctx context.Context, courseID string) error

	// DeleteAll removes every chunk. Idempotent.
	DeleteAll(ctx context.Context) error

	// Stats reports chunk counts, the recorded embedding version and
	// the database size.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Close releases the underlying resource. Operations after Close
	// fail with domain.ErrStorageUnavailable until Initialize is
	// called again.
	Close() error
}
