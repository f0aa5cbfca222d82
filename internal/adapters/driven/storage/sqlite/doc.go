// Package sqlite implements the ChunkStore port on a single SQLite file.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database holds two tables: chunks (one row per chunk, with the
// embedding serialized into a BLOB column) and metadata (a key/value
// singleton table recording the embedding scheme version). The schema is
// created on Initialize; there are no incremental SQL migrations - the only
// migration the store knows is a full purge when the embedding version
// changes.
//
// # Embedding blob format
//
// Vectors are stored as sequential IEEE-754 32-bit floats, little-endian,
// count = scheme dimension (see encoding.go). Rows whose blob length does
// not match the active dimension are treated as stale: searches skip and
// count them rather than failing, which tolerates rows left over
// mid-migration.
//
// # Concurrency
//
// A single owner goroutine holds the database handle and serves a FIFO
// request queue. Callers may invoke operations from any goroutine; the
// store guarantees mutual exclusion and submission-order servicing, which
// makes operations linearizable within the process. Cross-process access
// is unsupported.
//
// # Data Location
//
// By default, the database is stored at ~/.recall/data/chunks.db
package sqlite
