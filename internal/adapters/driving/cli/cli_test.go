package cli

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	migrated bool
	initErr  error

	indexedDocs []domain.Document
	indexCount  int
	indexErr    error

	queryCourse  string
	queryText    string
	queryTopK    int
	queryOutcome domain.SearchOutcome
	queryErr     error

	removedDocument string
	removedCourse   string
	resetCalled     bool

	stats    domain.StoreStats
	statsErr error

	closed bool
}

func (m *mockRetrievalService) Initialize(_ context.Context) (bool, error) {
	return m.migrated, m.initErr
}

func (m *mockRetrievalService) IndexDocument(_ context.Context, doc domain.Document) (int, error) {
	if m.indexErr != nil {
		return 0, m.indexErr
	}
	m.indexedDocs = append(m.indexedDocs, doc)
	return m.indexCount, nil
}

func (m *mockRetrievalService) Query(_ context.Context, courseID, question string, topK int) (domain.SearchOutcome, error) {
	if m.queryErr != nil {
		return domain.SearchOutcome{}, m.queryErr
	}
	m.queryCourse = courseID
	m.queryText = question
	m.queryTopK = topK
	return m.queryOutcome, nil
}

func (m *mockRetrievalService) RemoveDocument(_ context.Context, documentID string) error {
	m.removedDocument = documentID
	return nil
}

func (m *mockRetrievalService) RemoveCourse(_ context.Context, courseID string) error {
	m.removedCourse = courseID
	return nil
}

func (m *mockRetrievalService) Reset(_ context.Context) error {
	m.resetCalled = true
	return nil
}

func (m *mockRetrievalService) Status(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.statsErr
}

func (m *mockRetrievalService) Close() error {
	m.closed = true
	return nil
}

// setupTestServices installs a mock service and returns it with a
// cleanup function that restores the package state.
func setupTestServices() (*mockRetrievalService, func()) {
	mock := &mockRetrievalService{}
	SetRetrievalService(mock)
	return mock, func() {
		retrievalService = nil
		initialized = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}
}
