package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/shirabe/internal/eval"
	"github.com/hyperjump/shirabe/internal/ingest"
	"github.com/hyperjump/shirabe/internal/models"
)

func sampleResponse() *models.RetrieveResponse {
	return &models.RetrieveResponse{
		Query: "message queue decision",
		Results: []*models.ResultEntry{
			{
				Rank:        1,
				DocID:       "ADR-001",
				ChunkID:     "ADR-001#0000",
				DocType:     models.DocTypeADR,
				Title:       "Adopt managed message queue",
				FinalScore:  0.91,
				RawScore:    0.83,
				Status:      models.StatusApproved,
				System:      "billing-service",
				LastUpdated: "2025-03-10",
				Preview:     "We will adopt a managed message queue.",
				Reasons:     []string{"boost: status=approved"},
			},
		},
		QueryTime: 12,
	}
}

func TestWriteResultsText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Found 1 results in 12ms",
		"ADR-001",
		"ADR-001#0000",
		"Adopt managed message queue",
		"billing-service",
		"boost: status=approved",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.RetrieveResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Results) != 1 || decoded.Results[0].DocID != "ADR-001" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteIssues(t *testing.T) {
	var buf bytes.Buffer
	issues := []ingest.Issue{
		{Path: "a.md", Level: ingest.LevelError, Message: "missing required field: status"},
		{Path: "b.md", Level: ingest.LevelWarn, Message: "unknown metadata key: foo"},
	}
	errors := WriteIssues(&buf, issues)
	if errors != 1 {
		t.Errorf("errors = %d, want 1", errors)
	}
	out := buf.String()
	if !strings.Contains(out, "[ERROR] a.md") || !strings.Contains(out, "[WARN] b.md") {
		t.Errorf("output = %s", out)
	}
}

func TestWriteEvalSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := &eval.Summary{
		Results: []eval.CaseResult{
			{Case: eval.Case{ID: "q1"}, Verdict: eval.VerdictPass, Notes: "top-1"},
			{Case: eval.Case{ID: "q2"}, Verdict: eval.VerdictFail, Notes: "not in top 5"},
		},
		Pass: 1,
		Fail: 1,
	}
	WriteEvalSummary(&buf, summary)
	out := buf.String()
	if !strings.Contains(out, "[PASS] q1") || !strings.Contains(out, "[FAIL] q2") {
		t.Errorf("output = %s", out)
	}
	if !strings.Contains(out, "2 cases: 1 pass, 0 warn, 1 fail") {
		t.Errorf("missing aggregate line: %s", out)
	}
}
