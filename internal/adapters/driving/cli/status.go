package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store statistics",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	svc, err := ensureInitialized(cmd)
	if err != nil {
		return err
	}

	stats, err := svc.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	cmd.Printf("Chunks:            %d\n", stats.Chunks)
	cmd.Printf("Embedding version: %d\n", stats.EmbeddingVersion)
	cmd.Printf("Store size:        %s\n", formatBytes(stats.SizeBytes))

	if len(stats.Courses) == 0 {
		cmd.Println("Courses:           none")
		return nil
	}

	cmd.Println("Courses:")
	for _, course := range stats.Courses {
		cmd.Printf("  %s: %d chunks\n", course.CourseID, course.Chunks)
	}
	return nil
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
