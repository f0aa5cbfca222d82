package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// vectorWithSimilarity builds a unit vector whose cosine similarity to
// the query [1, 0, 0] equals s.
func vectorWithSimilarity(s float64) []float32 {
	return []float32{float32(s), float32(math.Sqrt(1 - s*s)), 0}
}

func TestSearch_InsertedVectorRanksFirst(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	chunks := []domain.Chunk{
		testChunk("near", "doc-1", 0),
		testChunk("far", "doc-1", 1),
	}
	target := []float32{0.3, 0.5, 0.8}
	embeddings := [][]float32{target, {-0.3, -0.5, -0.8}}
	require.NoError(t, store.Index(ctx, chunks, embeddings, "course-1"))

	outcome, err := store.Search(ctx, target, "course-1", 2)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)
	assert.Equal(t, "near", outcome.Results[0].ChunkID)
	assert.InDelta(t, 1.0, outcome.Results[0].Similarity, 1e-6)
	assert.InDelta(t, -1.0, outcome.Results[1].Similarity, 1e-6)
}

func TestSearch_TopKTruncation(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	scores := []float64{0.9, 0.7, 0.5, 0.3, 0.1}
	var chunks []domain.Chunk
	var embeddings [][]float32
	for i, s := range scores {
		chunks = append(chunks, testChunk(fmt.Sprintf("s%.1f", s), "doc-1", i))
		embeddings = append(embeddings, vectorWithSimilarity(s))
	}
	require.NoError(t, store.Index(ctx, chunks, embeddings, "course-1"))

	outcome, err := store.Search(ctx, []float32{1, 0, 0}, "course-1", 2)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)
	assert.Equal(t, "s0.9", outcome.Results[0].ChunkID)
	assert.Equal(t, "s0.7", outcome.Results[1].ChunkID)
	assert.InDelta(t, 0.9, outcome.Results[0].Similarity, 1e-6)
	assert.InDelta(t, 0.7, outcome.Results[1].Similarity, 1e-6)
}

func TestSearch_TieBreaksByChunkID(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	// Identical vectors, identical similarity: order must be the
	// deterministic ascending chunk ID, independent of insert order.
	chunks := []domain.Chunk{
		testChunk("zeta", "doc-1", 0),
		testChunk("alpha", "doc-1", 1),
		testChunk("mike", "doc-1", 2),
	}
	same := []float32{0, 1, 0}
	require.NoError(t, store.Index(ctx, chunks, [][]float32{same, same, same}, "course-1"))

	outcome, err := store.Search(ctx, same, "course-1", 3)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 3)
	assert.Equal(t, "alpha", outcome.Results[0].ChunkID)
	assert.Equal(t, "mike", outcome.Results[1].ChunkID)
	assert.Equal(t, "zeta", outcome.Results[2].ChunkID)
}

func TestSearch_CourseIsolation(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	vec := []float32{1, 0, 0}
	require.NoError(t, store.Index(ctx,
		[]domain.Chunk{testChunk("mine", "doc-1", 0)}, [][]float32{vec}, "course-a"))
	require.NoError(t, store.Index(ctx,
		[]domain.Chunk{testChunk("theirs", "doc-2", 0)}, [][]float32{vec}, "course-b"))

	outcome, err := store.Search(ctx, vec, "course-a", 10)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, "mine", outcome.Results[0].ChunkID)
}

func TestSearch_ZeroNormVector(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, store.Index(ctx,
		[]domain.Chunk{testChunk("null", "doc-1", 0)}, [][]float32{{0, 0, 0}}, "course-1"))

	outcome, err := store.Search(ctx, []float32{1, 0, 0}, "course-1", 1)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	assert.Zero(t, outcome.Results[0].Similarity)
}

func TestSearch_SkipsStaleBlobs(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	chunks := []domain.Chunk{
		testChunk("good", "doc-1", 0),
		testChunk("stale", "doc-1", 1),
	}
	embeddings := [][]float32{{1, 0, 0}, {0, 1, 0}}
	require.NoError(t, store.Index(ctx, chunks, embeddings, "course-1"))

	// Shrink one blob behind the store's back, as an aborted migration
	// would leave it. Reopen afterwards so the owner goroutine sees a
	// fresh handle.
	require.NoError(t, store.Close())
	db, err := sql.Open("sqlite", store.Path())
	require.NoError(t, err)
	_, err = db.Exec("UPDATE chunks SET embedding = X'0000' WHERE id = 'stale'")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = store.Initialize(ctx)
	require.NoError(t, err)

	outcome, err := store.Search(ctx, []float32{1, 0, 0}, "course-1", 10)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, "good", outcome.Results[0].ChunkID)
	assert.Equal(t, 1, outcome.Skipped, "stale rows are counted, not raised")
}

func TestSearch_InvalidInput(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.Search(ctx, []float32{1, 0}, "course-1", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "query dimension must match the scheme")

	_, err = store.Search(ctx, []float32{1, 0, 0}, "course-1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_ResultCarriesSourceFields(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx := context.Background()

	page := 12
	chunk := domain.Chunk{
		ID:           "labelled",
		DocumentID:   "doc-1",
		DocumentType: domain.DocumentTypeSlides,
		Position:     3,
		PageNumber:   &page,
		Heading:      "Gradient Descent",
		Text:         "step size matters",
	}
	require.NoError(t, store.Index(ctx, []domain.Chunk{chunk}, [][]float32{{1, 0, 0}}, "course-1"))

	outcome, err := store.Search(ctx, []float32{1, 0, 0}, "course-1", 1)
	require.NoError(t, err)
	require.Len(t, outcome.Results, 1)

	got := outcome.Results[0]
	assert.Equal(t, domain.DocumentTypeSlides, got.DocumentType)
	assert.Equal(t, "Gradient Descent", got.Heading)
	require.NotNil(t, got.PageNumber)
	assert.Equal(t, 12, *got.PageNumber)
	assert.Equal(t, "Gradient Descent (p. 12)", got.SourceLabel())
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0, 0}, []float32{-1, 0, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0, 0}, []float32{0, 1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}))
}
