package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [path]", indexCmd.Use)
}

func TestIndexCmd_File(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()
	mock.indexCount = 4

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Sorting\n\nMerge sort notes."), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", path, "--course", "algo", "--type", "notes"})

	require.NoError(t, rootCmd.Execute())

	require.Len(t, mock.indexedDocs, 1)
	doc := mock.indexedDocs[0]
	assert.Equal(t, "algo", doc.CourseID)
	assert.Equal(t, domain.DocumentTypeNotes, doc.Type)
	assert.Equal(t, "Sorting", doc.Title)

	assert.Contains(t, buf.String(), "Sorting: 4 chunks")
	assert.Contains(t, buf.String(), "Indexed 1 documents (4 chunks) into course algo")
}

func TestIndexCmd_Directory(t *testing.T) {
	mock, cleanup := setupTestServices()
	defer cleanup()
	mock.indexCount = 1

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("B"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte{0}, 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", dir, "--course", "algo"})

	require.NoError(t, rootCmd.Execute())
	assert.Len(t, mock.indexedDocs, 2)
}

func TestIndexCmd_MissingPath(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", "/nonexistent/path", "--course", "algo"})

	assert.Error(t, rootCmd.Execute())
}
