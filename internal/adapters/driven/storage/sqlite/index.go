package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Index upserts chunk/embedding pairs as one atomic batch. Every pair
// is keyed by chunk ID, so re-indexing an existing chunk replaces it
// and its embedding without duplicating rows. Any row failure rolls the
// whole batch back; partial writes are never observable.
func (s *Store) Index(ctx context.Context, chunks []domain.Chunk, embeddings [][]float32, courseID string) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: %d chunks, %d embeddings",
			domain.ErrArgumentMismatch, len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	return s.submit(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chunks (id, course_id, document_id, document_type, position,
				page_number, heading, text, embedding, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				course_id = excluded.course_id,
				document_id = excluded.document_id,
				document_type = excluded.document_type,
				position = excluded.position,
				page_number = excluded.page_number,
				heading = excluded.heading,
				text = excluded.text,
				embedding = excluded.embedding,
				created_at = excluded.created_at
		`)
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		now := float64(time.Now().UTC().UnixNano()) / 1e9

		for i, chunk := range chunks {
			if len(embeddings[i]) != s.scheme.Dimension {
				return fmt.Errorf("%w: chunk %q has %d dimensions, scheme expects %d",
					domain.ErrSerialization, chunk.ID, len(embeddings[i]), s.scheme.Dimension)
			}

			createdAt := now
			if !chunk.CreatedAt.IsZero() {
				createdAt = float64(chunk.CreatedAt.UTC().UnixNano()) / 1e9
			}

			var pageNumber sql.NullInt64
			if chunk.PageNumber != nil {
				pageNumber = sql.NullInt64{Int64: int64(*chunk.PageNumber), Valid: true}
			}
			var heading sql.NullString
			if chunk.Heading != "" {
				heading = sql.NullString{String: chunk.Heading, Valid: true}
			}

			if _, err := stmt.ExecContext(ctx,
				chunk.ID, courseID, chunk.DocumentID, string(chunk.DocumentType),
				chunk.Position, pageNumber, heading, chunk.Text,
				encodeVector(embeddings[i]), createdAt); err != nil {
				return fmt.Errorf("saving chunk %q: %w", chunk.ID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}

		logger.Debug("Indexed %d chunks for course %s", len(chunks), courseID)
		return nil
	})
}
