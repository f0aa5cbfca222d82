package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

var (
	searchCourse string
	searchLimit  int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search a course's indexed materials",
	Long: `Embeds the query and returns the most similar chunks from the
course's indexed materials, best match first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCourse, "course", "c", "", "course id to search in (required)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 8, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	_ = searchCmd.MarkFlagRequired("course")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	svc, err := ensureInitialized(cmd)
	if err != nil {
		return err
	}

	outcome, err := svc.Query(cmd.Context(), searchCourse, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if outcome.Skipped > 0 {
		cmd.PrintErrf("Skipped %d chunks with stale embeddings, re-index this course.\n", outcome.Skipped)
	}

	if searchJSON {
		return outputSearchJSON(cmd, outcome)
	}
	return outputSearchText(cmd, outcome)
}

// searchResultJSON is the stable JSON shape of one hit.
type searchResultJSON struct {
	ChunkID      string  `json:"chunk_id"`
	DocumentID   string  `json:"document_id"`
	DocumentType string  `json:"document_type"`
	Heading      string  `json:"heading,omitempty"`
	PageNumber   *int    `json:"page_number,omitempty"`
	Source       string  `json:"source"`
	Similarity   float64 `json:"similarity"`
	Text         string  `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, outcome domain.SearchOutcome) error {
	payload := struct {
		Results []searchResultJSON `json:"results"`
		Skipped int                `json:"skipped"`
	}{
		Results: make([]searchResultJSON, 0, len(outcome.Results)),
		Skipped: outcome.Skipped,
	}

	for _, r := range outcome.Results {
		payload.Results = append(payload.Results, searchResultJSON{
			ChunkID:      r.ChunkID,
			DocumentID:   r.DocumentID,
			DocumentType: string(r.DocumentType),
			Heading:      r.Heading,
			PageNumber:   r.PageNumber,
			Source:       r.SourceLabel(),
			Similarity:   r.Similarity,
			Text:         r.Text,
		})
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, outcome domain.SearchOutcome) error {
	if len(outcome.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range outcome.Results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.SourceLabel(), r.Similarity)
		cmd.Printf("      %s\n", snippet(r.Text, 200))
		cmd.Println()
	}
	return nil
}

// snippet collapses whitespace and truncates to maxLen characters.
func snippet(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
