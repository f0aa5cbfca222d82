package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/loader"
	"github.com/recall-labs/recall-cli/internal/logger"
)

var (
	indexCourse string
	indexType   string
	indexWatch  bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index course materials",
	Long: `Indexes a file or directory of course materials into the store.
Supported formats are markdown and plain text. Re-indexing a file
replaces its earlier chunks.

With --watch the command keeps running and re-indexes files as they
change on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexCourse, "course", "c", "", "course id to index into (required)")
	indexCmd.Flags().StringVarP(&indexType, "type", "t", string(domain.DocumentTypeOther),
		"document type: notes, slides, textbook, exam or other")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep running and re-index on file changes")
	_ = indexCmd.MarkFlagRequired("course")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := args[0]
	docType := domain.ParseDocumentType(indexType)

	svc, err := ensureInitialized(cmd)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var docs []domain.Document
	if info.IsDir() {
		docs, err = loader.LoadDir(path, indexCourse, docType)
	} else {
		var doc domain.Document
		doc, err = loader.Load(path, indexCourse, docType)
		docs = []domain.Document{doc}
	}
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		cmd.Println("No supported files found.")
		return nil
	}

	total := 0
	for _, doc := range docs {
		count, err := svc.IndexDocument(cmd.Context(), doc)
		if err != nil {
			return fmt.Errorf("index %s: %w", doc.Title, err)
		}
		cmd.Printf("  %s: %d chunks\n", doc.Title, count)
		total += count
	}
	cmd.Printf("Indexed %d documents (%d chunks) into course %s\n", len(docs), total, indexCourse)

	if indexWatch {
		return watchAndIndex(cmd, path, info.IsDir(), docType)
	}
	return nil
}

// watchAndIndex re-indexes changed files until the context is cancelled.
func watchAndIndex(cmd *cobra.Command, path string, isDir bool, docType domain.DocumentType) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if isDir {
		// Watch the directory tree, not individual files, so newly
		// created files are picked up.
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(p)
			}
			return nil
		})
	} else {
		// Editors often replace files on save, so watch the parent.
		err = watcher.Add(filepath.Dir(path))
	}
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	target := ""
	if !isDir {
		if target, err = filepath.Abs(path); err != nil {
			return err
		}
	}

	cmd.Printf("Watching %s for changes (ctrl-c to stop)\n", path)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleWatchEvent(cmd, watcher, event, target, docType)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func handleWatchEvent(cmd *cobra.Command, watcher *fsnotify.Watcher, event fsnotify.Event, target string, docType domain.DocumentType) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if target != "" && abs != target {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			if event.Op.Has(fsnotify.Create) {
				_ = watcher.Add(abs)
			}
			return
		}
		if !loader.Supported(abs) {
			return
		}
		doc, err := loader.Load(abs, indexCourse, docType)
		if err != nil {
			logger.Warn("Reload %s failed: %v", abs, err)
			return
		}
		count, err := retrievalService.IndexDocument(cmd.Context(), doc)
		if err != nil {
			logger.Warn("Re-index %s failed: %v", abs, err)
			return
		}
		cmd.Printf("  re-indexed %s (%d chunks)\n", doc.Title, count)

	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		if !loader.Supported(abs) {
			return
		}
		if err := retrievalService.RemoveDocument(cmd.Context(), loader.DocumentID(abs)); err != nil {
			logger.Warn("Remove %s failed: %v", abs, err)
			return
		}
		cmd.Printf("  removed %s\n", filepath.Base(abs))
	}
}
