package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/recall-labs/recall-cli/internal/logger"
)

// Deletes are single statements and therefore atomic. All three are
// idempotent: deleting rows that do not exist is a success.

// DeleteDocument removes all chunks of one document.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	return s.submit(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
		if err != nil {
			return fmt.Errorf("deleting document chunks: %w", err)
		}
		logRemoved(res, "document", documentID)
		return nil
	})
}

// DeleteCourse removes all chunks of one course.
func (s *Store) DeleteCourse(ctx context.Context, courseID string) error {
	return s.submit(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM chunks WHERE course_id = ?", courseID)
		if err != nil {
			return fmt.Errorf("deleting course chunks: %w", err)
		}
		logRemoved(res, "course", courseID)
		return nil
	})
}

// DeleteAll removes every stored chunk.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.submit(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM chunks")
		if err != nil {
			return fmt.Errorf("deleting all chunks: %w", err)
		}
		logRemoved(res, "store", "*")
		return nil
	})
}

func logRemoved(res sql.Result, scope, id string) {
	if n, err := res.RowsAffected(); err == nil {
		logger.Debug("Deleted %d chunks (%s %s)", n, scope, id)
	}
}
