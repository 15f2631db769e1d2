// Package eval grades retrieval quality against a fixed question set,
// checking that each query surfaces its expected primary document.
package eval

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/retrieval"
)

// Verdicts. PASS requires the expected document in the top 3 and a matching
// top-1 type; WARN tolerates top 5 or a type mismatch; FAIL means the
// expected document is missing from the top 5 entirely.
const (
	VerdictPass = "PASS"
	VerdictWarn = "WARN"
	VerdictFail = "FAIL"
)

// Case is one evaluation question, loaded from a JSONL file.
type Case struct {
	ID                 string `json:"id"`
	Query              string `json:"query"`
	ExpectedPrimaryDoc string `json:"expected_primary_doc"`
	ExpectedDocType    string `json:"expected_doc_type"`
}

// CaseResult is the graded outcome of one case.
type CaseResult struct {
	Case    Case
	Verdict string
	Notes   string
	Top1    string
}

// Summary aggregates a full evaluation run.
type Summary struct {
	Results []CaseResult
	Pass    int
	Warn    int
	Fail    int
}

// Failed reports whether any case failed, for CI-style exit codes.
func (s *Summary) Failed() bool {
	return s.Fail > 0
}

// LoadCases reads JSONL evaluation cases from path, skipping blank lines.
func LoadCases(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions file: %w", err)
	}
	defer f.Close()
	return ParseCases(f)
}

// ParseCases reads JSONL evaluation cases from r.
func ParseCases(r io.Reader) ([]Case, error) {
	var cases []Case
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var c Case
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if c.ID == "" || c.Query == "" || c.ExpectedPrimaryDoc == "" {
			return nil, fmt.Errorf("line %d: id, query, and expected_primary_doc are required", lineNo)
		}
		cases = append(cases, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cases, nil
}

// Grade scores one case against an ordered result list.
func Grade(c Case, results []*models.ResultEntry) (verdict, notes string) {
	top5 := results
	if len(top5) > 5 {
		top5 = top5[:5]
	}
	top3 := top5
	if len(top3) > 3 {
		top3 = top3[:3]
	}

	inTop3 := containsDoc(top3, c.ExpectedPrimaryDoc)
	inTop5 := containsDoc(top5, c.ExpectedPrimaryDoc)

	top1Type := ""
	if len(top5) > 0 {
		top1Type = string(top5[0].DocType)
	}

	if inTop3 && top1Type == c.ExpectedDocType {
		return VerdictPass, fmt.Sprintf("expected doc in top-3; top-1 type=%s", top1Type)
	}
	if inTop5 {
		return VerdictWarn, fmt.Sprintf("expected doc in top-5; top-1 type=%s", top1Type)
	}
	return VerdictFail, "expected doc not in top-5"
}

func containsDoc(results []*models.ResultEntry, docID string) bool {
	for _, r := range results {
		if r.DocID == docID {
			return true
		}
	}
	return false
}

// Runner executes evaluation cases against a retrieval pipeline.
type Runner struct {
	pipeline *retrieval.Pipeline
	topK     int
	pool     int
}

// NewRunner creates a runner. topK and pool fall back to 5 and 30 when
// non-positive.
func NewRunner(p *retrieval.Pipeline, topK, pool int) *Runner {
	if topK <= 0 {
		topK = 5
	}
	if pool <= 0 {
		pool = 30
	}
	return &Runner{pipeline: p, topK: topK, pool: pool}
}

// Run executes every case and returns the graded summary. Retrieval errors
// fail the affected case rather than aborting the run.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Summary, error) {
	summary := &Summary{}
	for _, c := range cases {
		resp, err := r.pipeline.Retrieve(ctx, &models.RetrieveRequest{
			Query:         c.Query,
			TopK:          r.topK,
			CandidatePool: r.pool,
		})
		var result CaseResult
		if err != nil {
			result = CaseResult{Case: c, Verdict: VerdictFail, Notes: fmt.Sprintf("retrieval error: %v", err), Top1: "(no results)"}
		} else {
			verdict, notes := Grade(c, resp.Results)
			top1 := "(no results)"
			if len(resp.Results) > 0 {
				top1 = fmt.Sprintf("%s (%s)", resp.Results[0].DocID, resp.Results[0].DocType)
			}
			result = CaseResult{Case: c, Verdict: verdict, Notes: notes, Top1: top1}
		}
		switch result.Verdict {
		case VerdictPass:
			summary.Pass++
		case VerdictWarn:
			summary.Warn++
		default:
			summary.Fail++
		}
		summary.Results = append(summary.Results, result)
	}
	return summary, nil
}
