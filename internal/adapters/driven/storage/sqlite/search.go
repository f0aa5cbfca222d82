package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Search scans all chunks of one course, scores them by cosine
// similarity against the query vector and returns at most topK results,
// similarity descending. Equal similarities order by ascending chunk ID
// so result order is deterministic regardless of storage iteration
// order.
//
// Rows whose stored blob length does not match the active dimension are
// skipped and counted, never raised: such rows are stale leftovers of
// an embedding migration and re-indexing will replace them.
func (s *Store) Search(ctx context.Context, query []float32, courseID string, topK int) (domain.SearchOutcome, error) {
	if len(query) != s.scheme.Dimension {
		return domain.SearchOutcome{}, fmt.Errorf("%w: query has %d dimensions, scheme expects %d",
			domain.ErrInvalidInput, len(query), s.scheme.Dimension)
	}
	if topK <= 0 {
		return domain.SearchOutcome{}, fmt.Errorf("%w: topK must be positive", domain.ErrInvalidInput)
	}

	var outcome domain.SearchOutcome

	err := s.submit(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, text, document_id, document_type, position, page_number, heading, embedding
			FROM chunks WHERE course_id = ?
		`, courseID)
		if err != nil {
			return fmt.Errorf("querying chunks: %w", err)
		}
		defer rows.Close()

		expectedBytes := s.scheme.Dimension * 4

		for rows.Next() {
			var (
				result     domain.SearchResult
				docType    string
				position   int
				pageNumber sql.NullInt64
				heading    sql.NullString
				blob       []byte
			)
			if err := rows.Scan(&result.ChunkID, &result.Text, &result.DocumentID,
				&docType, &position, &pageNumber, &heading, &blob); err != nil {
				return fmt.Errorf("scanning chunk: %w", err)
			}

			if len(blob) != expectedBytes {
				outcome.Skipped++
				continue
			}

			result.DocumentType = domain.DocumentType(docType)
			if pageNumber.Valid {
				page := int(pageNumber.Int64)
				result.PageNumber = &page
			}
			result.Heading = heading.String
			result.Similarity = cosineSimilarity(query, decodeVector(blob))

			outcome.Results = append(outcome.Results, result)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating chunks: %w", err)
		}

		sort.Slice(outcome.Results, func(i, j int) bool {
			if outcome.Results[i].Similarity != outcome.Results[j].Similarity {
				return outcome.Results[i].Similarity > outcome.Results[j].Similarity
			}
			return outcome.Results[i].ChunkID < outcome.Results[j].ChunkID
		})

		if len(outcome.Results) > topK {
			outcome.Results = outcome.Results[:topK]
		}

		if outcome.Skipped > 0 {
			logger.Warn("Search skipped %d stale chunks in course %s", outcome.Skipped, courseID)
		}

		return nil
	})
	if err != nil {
		return domain.SearchOutcome{}, err
	}

	return outcome, nil
}

// cosineSimilarity is dot(a,b) / (|a|*|b|), computed in float64.
// If either norm is zero the similarity is 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
