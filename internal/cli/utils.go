// Package cli provides output rendering for the shirabe command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/shirabe/internal/eval"
	"github.com/hyperjump/shirabe/internal/ingest"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/pkg/utils"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteResults writes retrieval results to w in the given format.
func WriteResults(w io.Writer, response *models.RetrieveResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	default:
		writeResultsText(w, response)
		return nil
	}
}

func writeResultsText(w io.Writer, response *models.RetrieveResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms\n\n", len(response.Results), response.QueryTime)
	for _, r := range response.Results {
		writeOneResult(w, r)
	}
}

func writeOneResult(w io.Writer, r *models.ResultEntry) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | Score: %.4f (similarity: %.4f) | %s\n",
		r.Rank, r.FinalScore, r.RawScore, r.DocType)
	fmt.Fprintf(w, "Doc: %s (%s)\n", r.DocID, r.ChunkID)
	if r.Title != "" {
		fmt.Fprintf(w, "Title: %s\n", r.Title)
	}
	fmt.Fprintf(w, "Status: %s", r.Status)
	if r.System != "" {
		fmt.Fprintf(w, " | System: %s", r.System)
	}
	if r.LastUpdated != "" {
		fmt.Fprintf(w, " | Updated: %s", r.LastUpdated)
	}
	fmt.Fprintln(w)
	for _, reason := range r.Reasons {
		fmt.Fprintf(w, "  %s\n", reason)
	}
	if r.Preview != "" {
		fmt.Fprintf(w, "\n%s\n", utils.Truncate(r.Preview, 200))
	}
	fmt.Fprintln(w)
}

// WriteIssues writes validation findings to w, one per line, and returns the
// number of errors (as opposed to warnings).
func WriteIssues(w io.Writer, issues []ingest.Issue) int {
	errors := 0
	for _, issue := range issues {
		if issue.Level == ingest.LevelError {
			errors++
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", issue.Level, issue.Path, issue.Message)
	}
	return errors
}

// WriteEvalSummary writes per-case verdicts and the aggregate counts.
func WriteEvalSummary(w io.Writer, summary *eval.Summary) {
	for _, r := range summary.Results {
		fmt.Fprintf(w, "[%s] %s: %s\n", r.Verdict, r.Case.ID, r.Notes)
	}
	total := len(summary.Results)
	fmt.Fprintf(w, "\n%d cases: %d pass, %d warn, %d fail\n",
		total, summary.Pass, summary.Warn, summary.Fail)
}
