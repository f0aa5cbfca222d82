package driven

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// PostProcessor processes document content to produce chunks.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns its ordered chunks.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
