package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteDocument string
	deleteCourse   string
	deleteAll      bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove indexed materials",
	Long: `Removes indexed chunks from the store.
Exactly one scope must be given: a document, a course, or everything.`,
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().StringVar(&deleteDocument, "document", "", "remove one document's chunks")
	deleteCmd.Flags().StringVar(&deleteCourse, "course", "", "remove one course's chunks")
	deleteCmd.Flags().BoolVar(&deleteAll, "all", false, "remove all stored chunks")
	deleteCmd.MarkFlagsMutuallyExclusive("document", "course", "all")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, _ []string) error {
	if deleteDocument == "" && deleteCourse == "" && !deleteAll {
		return errors.New("one of --document, --course or --all is required")
	}

	svc, err := ensureInitialized(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	switch {
	case deleteDocument != "":
		if err := svc.RemoveDocument(ctx, deleteDocument); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		cmd.Printf("Removed document %s\n", deleteDocument)

	case deleteCourse != "":
		if err := svc.RemoveCourse(ctx, deleteCourse); err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		cmd.Printf("Removed course %s\n", deleteCourse)

	case deleteAll:
		if err := svc.Reset(ctx); err != nil {
			return fmt.Errorf("delete all: %w", err)
		}
		cmd.Println("Removed all indexed materials")
	}

	return nil
}
