package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, indexing and semantic
// queries are disabled.
//
// Note: This is separate from ChunkStore which stores and searches
// vectors. EmbeddingService generates vectors; ChunkStore stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Scheme returns the active embedding scheme. The version is bumped
	// whenever the model or its output changes; the dimension is the
	// fixed vector length. The store records the version and purges
	// incompatible data when it changes.
	Scheme() (version, dimension int)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to indexing.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
