package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// metaKeyEmbeddingVersion is the metadata key recording which embedding
// scheme produced the stored vectors.
const metaKeyEmbeddingVersion = "embedding_version"

// schemaDDL creates the durable layout. Idempotent.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS chunks (
	id            TEXT PRIMARY KEY,
	course_id     TEXT NOT NULL,
	document_id   TEXT NOT NULL,
	document_type TEXT NOT NULL,
	position      INTEGER NOT NULL,
	page_number   INTEGER,
	heading       TEXT,
	text          TEXT NOT NULL,
	embedding     BLOB NOT NULL,
	created_at    REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_course_id ON chunks(course_id);
CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);

CREATE TABLE IF NOT EXISTS metadata (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// request is one queued store operation.
type request struct {
	fn   func(db *sql.DB) error
	done chan error
}

// Store is the SQLite-backed chunk/embedding store and similarity
// search engine. A single owner goroutine holds the database handle and
// drains a FIFO request queue, so at most one operation runs at a time
// and concurrent callers are serviced strictly in submission order.
type Store struct {
	scheme  domain.EmbeddingScheme
	dataDir string
	path    string

	mu         sync.Mutex // guards open/requests lifecycle state
	open       bool
	requests   chan request
	inflight   sync.WaitGroup // submissions accepted but not yet enqueued
	workerDone chan struct{}
	closeErr   error
}

// New creates a store rooted at dataDir for the given embedding scheme.
// If dataDir is empty, defaults to ~/.recall/data. The database is not
// touched until Initialize is called.
func New(dataDir string, scheme domain.EmbeddingScheme) (*Store, error) {
	if scheme.Dimension <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive", domain.ErrInvalidInput)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recall", "data")
	}

	return &Store{
		scheme:  scheme,
		dataDir: dataDir,
		path:    filepath.Join(dataDir, "chunks.db"),
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Initialize opens the database, creates the schema if absent and
// reconciles the recorded embedding version against the active scheme.
// A version mismatch purges all chunks transactionally, records the new
// version and returns migrated=true; the caller must re-index every
// document. Calling Initialize on an open store is a no-op.
func (s *Store) Initialize(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return false, nil
	}

	if err := os.MkdirAll(s.dataDir, 0700); err != nil {
		return false, fmt.Errorf("%w: creating data directory: %v", domain.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return false, fmt.Errorf("%w: opening database: %v", domain.ErrStorageUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return false, fmt.Errorf("%w: opening database: %v", domain.ErrStorageUnavailable, err)
	}

	// One connection: the owner goroutine is the only user of the
	// handle, and a single connection keeps transactions and PRAGMAs
	// on the same session.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		db.Close()
		return false, fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}

	migrated, err := s.reconcileVersion(ctx, db)
	if err != nil {
		db.Close()
		return false, err
	}

	s.open = true
	s.requests = make(chan request)
	s.workerDone = make(chan struct{})
	go s.serve(db, s.requests, s.workerDone)

	logger.Debug("Store initialized: path=%s version=%d dim=%d migrated=%t",
		s.path, s.scheme.Version, s.scheme.Dimension, migrated)

	return migrated, nil
}

// reconcileVersion compares the recorded embedding version with the
// active scheme. First run records the scheme version. A differing
// version invalidates the entire chunk set: the purge and the version
// write commit together or not at all.
func (s *Store) reconcileVersion(ctx context.Context, db *sql.DB) (bool, error) {
	var value string
	err := db.QueryRowContext(ctx,
		"SELECT value FROM metadata WHERE key = ?", metaKeyEmbeddingVersion).Scan(&value)

	switch {
	case err == sql.ErrNoRows:
		// First run: record the active version.
		if _, err := db.ExecContext(ctx,
			"INSERT INTO metadata (key, value) VALUES (?, ?)",
			metaKeyEmbeddingVersion, strconv.Itoa(s.scheme.Version)); err != nil {
			return false, fmt.Errorf("%w: recording embedding version: %v", domain.ErrSchema, err)
		}
		return false, nil

	case err != nil:
		return false, fmt.Errorf("%w: reading embedding version: %v", domain.ErrSchema, err)
	}

	stored, err := strconv.Atoi(value)
	if err != nil {
		return false, fmt.Errorf("%w: malformed embedding version %q", domain.ErrSchema, value)
	}

	if stored == s.scheme.Version {
		return false, nil
	}

	logger.Warn("Embedding version changed (%d -> %d), purging all chunks", stored, s.scheme.Version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: beginning migration: %v", domain.ErrSchema, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return false, fmt.Errorf("%w: purging chunks: %v", domain.ErrSchema, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE metadata SET value = ? WHERE key = ?",
		strconv.Itoa(s.scheme.Version), metaKeyEmbeddingVersion); err != nil {
		return false, fmt.Errorf("%w: updating embedding version: %v", domain.ErrSchema, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: committing migration: %v", domain.ErrSchema, err)
	}

	return true, nil
}

// serve owns the database handle. It executes queued requests one at a
// time in arrival order until the queue is closed, then releases the
// handle.
func (s *Store) serve(db *sql.DB, requests chan request, done chan struct{}) {
	for req := range requests {
		req.done <- req.fn(db)
	}
	s.closeErr = db.Close()
	close(done)
}

// submit enqueues an operation and waits for its completion. The
// context is honored only while waiting for a queue slot: once an
// operation is admitted it runs to completion. Operations submitted
// after Close fail with domain.ErrStorageUnavailable.
func (s *Store) submit(ctx context.Context, fn func(db *sql.DB) error) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return domain.ErrStorageUnavailable
	}
	requests := s.requests
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	req := request{fn: fn, done: make(chan error, 1)}
	select {
	case requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-req.done
}

// Close drains pending operations, releases the database handle and
// marks the store unavailable. Safe to call multiple times; the store
// can be reopened with Initialize.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return nil
	}
	s.open = false
	requests, workerDone := s.requests, s.workerDone
	s.mu.Unlock()

	// Wait for accepted submissions to enqueue, then let the owner
	// goroutine finish the queue and release the handle.
	s.inflight.Wait()
	close(requests)
	<-workerDone

	return s.closeErr
}

// Stats reports chunk counts, the recorded embedding version and the
// approximate database size.
func (s *Store) Stats(ctx context.Context) (domain.StoreStats, error) {
	var stats domain.StoreStats

	err := s.submit(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&stats.Chunks); err != nil {
			return fmt.Errorf("counting chunks: %w", err)
		}

		rows, err := db.QueryContext(ctx,
			"SELECT course_id, COUNT(*) FROM chunks GROUP BY course_id ORDER BY course_id")
		if err != nil {
			return fmt.Errorf("counting courses: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var cc domain.CourseCount
			if err := rows.Scan(&cc.CourseID, &cc.Chunks); err != nil {
				return fmt.Errorf("scanning course count: %w", err)
			}
			stats.Courses = append(stats.Courses, cc)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating course counts: %w", err)
		}

		var value string
		if err := db.QueryRowContext(ctx,
			"SELECT value FROM metadata WHERE key = ?", metaKeyEmbeddingVersion).Scan(&value); err != nil {
			return fmt.Errorf("reading embedding version: %w", err)
		}
		version, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("malformed embedding version %q", value)
		}
		stats.EmbeddingVersion = version

		// Approximate file size; missing stats are not an error.
		if err := db.QueryRowContext(ctx,
			"SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()",
		).Scan(&stats.SizeBytes); err != nil {
			stats.SizeBytes = 0
		}

		return nil
	})
	if err != nil {
		return domain.StoreStats{}, err
	}

	return stats, nil
}
