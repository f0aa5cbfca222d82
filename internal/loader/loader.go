// Package loader reads course material files from disk and converts
// them into documents ready for chunking. It handles plaintext and
// markdown files; markdown keeps its heading structure so the chunker
// can attribute chunks to sections.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// supportedExtensions lists the file extensions the loader accepts.
var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
}

// Supported reports whether the loader handles the file's extension.
func Supported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load reads a single file into a document. The document id is derived
// from the absolute file path, so loading the same file again yields
// the same id and re-indexing replaces the earlier chunks.
func Load(path, courseID string, docType domain.DocumentType) (domain.Document, error) {
	if !Supported(path) {
		return domain.Document{}, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("resolve path: %w", err)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read file: %w", err)
	}

	return domain.Document{
		ID:        DocumentID(abs),
		CourseID:  courseID,
		Type:      docType,
		Title:     extractTitle(string(content), abs),
		Content:   string(content),
		CreatedAt: time.Now(),
	}, nil
}

// LoadDir walks a directory and loads every supported file.
// Unsupported files are silently skipped.
func LoadDir(dir, courseID string, docType domain.DocumentType) ([]domain.Document, error) {
	var docs []domain.Document

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		doc, err := Load(path, courseID, docType)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// DocumentID derives a stable document id from an absolute file path.
func DocumentID(absPath string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+absPath)).String()
}

// extractTitle takes the first markdown H1 heading, falling back to a
// cleaned-up filename.
func extractTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}

	filename := filepath.Base(path)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}
