package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultTopK is the result count used when the caller passes none.
const DefaultTopK = 8

// RetrievalService orchestrates the chunk -> embed -> index pipeline
// and ranked retrieval over the chunk store.
type RetrievalService struct {
	store     driven.ChunkStore
	embedder  driven.EmbeddingService
	processor driven.PostProcessor
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	store driven.ChunkStore,
	embedder driven.EmbeddingService,
	processor driven.PostProcessor,
) *RetrievalService {
	return &RetrievalService{
		store:     store,
		embedder:  embedder,
		processor: processor,
	}
}

// Initialize opens the store. When migrated is true the embedding
// scheme changed and all previously stored chunks were purged.
func (s *RetrievalService) Initialize(ctx context.Context) (bool, error) {
	migrated, err := s.store.Initialize(ctx)
	if err != nil {
		return false, fmt.Errorf("initialize store: %w", err)
	}
	if migrated {
		logger.Warn("Embedding scheme changed: stored chunks were purged, re-index all documents")
	}
	return migrated, nil
}

// IndexDocument chunks the document, embeds every chunk in one batch
// and writes the whole batch to the store. Returns the chunk count.
func (s *RetrievalService) IndexDocument(ctx context.Context, doc domain.Document) (int, error) {
	logger.Section("Index Document")
	logger.Debug("Document: id=%s course=%s type=%s title=%q", doc.ID, doc.CourseID, doc.Type, doc.Title)

	if doc.CourseID == "" {
		return 0, fmt.Errorf("%w: document has no course id", domain.ErrInvalidInput)
	}

	chunks, err := s.processor.Process(ctx, &doc)
	if err != nil {
		return 0, fmt.Errorf("chunk document: %w", err)
	}
	logger.Debug("Chunked into %d chunks", len(chunks))
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}

	logger.Debug("Embedding %d chunks with %s", len(texts), s.embedder.ModelName())
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}

	if err := s.store.Index(ctx, chunks, embeddings, doc.CourseID); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	logger.Info("Indexed %d chunks for document %s", len(chunks), doc.ID)
	return len(chunks), nil
}

// Query embeds the question and returns the course's most similar
// chunks in similarity order.
func (s *RetrievalService) Query(
	ctx context.Context, courseID, question string, topK int,
) (domain.SearchOutcome, error) {
	logger.Section("Query Execution")
	logger.Debug("Course: %s, Query: %q", courseID, question)

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.SearchOutcome{}, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return domain.SearchOutcome{}, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	outcome, err := s.store.Search(ctx, embedding, courseID, topK)
	if err != nil {
		return domain.SearchOutcome{}, fmt.Errorf("search: %w", err)
	}

	logger.Info("Results: %d (skipped %d stale rows)", len(outcome.Results), outcome.Skipped)
	return outcome, nil
}

// RemoveDocument deletes one document's chunks.
func (s *RetrievalService) RemoveDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	return s.store.DeleteDocument(ctx, documentID)
}

// RemoveCourse deletes one course's chunks.
func (s *RetrievalService) RemoveCourse(ctx context.Context, courseID string) error {
	if courseID == "" {
		return fmt.Errorf("%w: empty course id", domain.ErrInvalidInput)
	}
	return s.store.DeleteCourse(ctx, courseID)
}

// Reset deletes all stored chunks.
func (s *RetrievalService) Reset(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}

// Status reports store statistics.
func (s *RetrievalService) Status(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}

// Close shuts down the store and the embedding service.
func (s *RetrievalService) Close() error {
	embErr := s.embedder.Close()
	if err := s.store.Close(); err != nil {
		return err
	}
	return embErr
}
