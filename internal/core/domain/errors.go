package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrStorageUnavailable indicates the durable store is not open or
	// failed to open. Operations fail with this error after Close until
	// the store is initialized again.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrSchema indicates table or index creation failed during
	// initialization.
	ErrSchema = errors.New("schema creation failed")

	// ErrArgumentMismatch indicates the chunk and embedding slices
	// passed to an indexing batch differ in length. Nothing is written.
	ErrArgumentMismatch = errors.New("chunk/embedding count mismatch")

	// ErrSerialization indicates a vector could not be serialized for
	// storage, typically because its length does not match the active
	// scheme's dimension. Read-side mismatches are never raised; they
	// are skipped and counted instead.
	ErrSerialization = errors.New("embedding serialization failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and semantic queries are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
