package policy

import (
	"testing"
	"time"

	"github.com/hyperjump/shirabe/internal/models"
)

func cand(chunkID string, doc *models.Document, adjusted float64) *models.Candidate {
	return &models.Candidate{
		ChunkID:       chunkID,
		RawScore:      adjusted,
		AdjustedScore: adjusted,
		Document:      doc,
		Chunk:         &models.DocumentChunk{ID: chunkID, DocumentID: doc.ID},
	}
}

func TestSelectDedup(t *testing.T) {
	docA := testDoc("STD-01", models.DocTypeStandard, models.StatusApproved, testNow)
	sorted := []*models.Candidate{
		cand("STD-01#0001", docA, 0.9),
		cand("STD-01#0002", docA, 0.8),
		cand("STD-01#0003", docA, 0.7),
	}
	got := Select(sorted, 5, map[models.DocType]int{models.DocTypeStandard: 5})
	if len(got) != 1 {
		t.Fatalf("Expected 1 result after dedup, got %d", len(got))
	}
	if got[0].ChunkID != "STD-01#0001" {
		t.Errorf("Expected highest-ranked chunk kept, got %s", got[0].ChunkID)
	}
}

func TestSelectQuota(t *testing.T) {
	docs := []*models.Document{
		testDoc("PM-2024-01", models.DocTypePostmortem, models.StatusApproved, testNow),
		testDoc("PM-2024-02", models.DocTypePostmortem, models.StatusApproved, testNow),
		testDoc("PM-2024-03", models.DocTypePostmortem, models.StatusApproved, testNow),
		testDoc("STD-01", models.DocTypeStandard, models.StatusApproved, testNow),
	}
	sorted := []*models.Candidate{
		cand("PM-2024-01#0001", docs[0], 0.9),
		cand("PM-2024-02#0001", docs[1], 0.8),
		cand("PM-2024-03#0001", docs[2], 0.7),
		cand("STD-01#0001", docs[3], 0.6),
	}
	quotas := map[models.DocType]int{models.DocTypePostmortem: 2, models.DocTypeStandard: 2}
	got := Select(sorted, 4, quotas)
	if len(got) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(got))
	}
	// Third postmortem skipped for quota; standard backfills in rank order.
	if got[2].Document.ID != "STD-01" {
		t.Errorf("Expected standard backfill, got %s", got[2].Document.ID)
	}
	counts := make(map[models.DocType]int)
	for _, c := range got {
		counts[c.Document.Type]++
	}
	for dt, n := range counts {
		if n > quotas[dt] {
			t.Errorf("quota violated for %s: %d > %d", dt, n, quotas[dt])
		}
	}
}

func TestSelectZeroQuotaExcludesType(t *testing.T) {
	doc := testDoc("RBK-01", models.DocTypeRunbook, models.StatusApproved, testNow)
	sorted := []*models.Candidate{cand("RBK-01#0001", doc, 0.99)}
	got := Select(sorted, 5, map[models.DocType]int{models.DocTypeRunbook: 0})
	if len(got) != 0 {
		t.Errorf("Expected empty result with zero runbook quota, got %d entries", len(got))
	}
}

func TestSelectTypeAbsentFromQuotas(t *testing.T) {
	doc := testDoc("TMP-01", models.DocTypeTemplate, models.StatusApproved, testNow)
	sorted := []*models.Candidate{cand("TMP-01#0001", doc, 0.99)}
	got := Select(sorted, 5, map[models.DocType]int{models.DocTypeStandard: 5})
	if len(got) != 0 {
		t.Errorf("Expected type absent from quota map to be inadmissible, got %d entries", len(got))
	}
}

func TestSelectStopsAtTopK(t *testing.T) {
	sorted := make([]*models.Candidate, 0, 10)
	for i := 0; i < 10; i++ {
		doc := testDoc("STD-0"+string(rune('0'+i)), models.DocTypeStandard, models.StatusApproved, testNow)
		sorted = append(sorted, cand(doc.ID+"#0001", doc, 1.0-float64(i)*0.01))
	}
	got := Select(sorted, 3, map[models.DocType]int{models.DocTypeStandard: 10})
	if len(got) != 3 {
		t.Errorf("Expected topK=3 results, got %d", len(got))
	}
}

func TestSelectFewerDocsThanTopK(t *testing.T) {
	doc := testDoc("ADR-001", models.DocTypeADR, models.StatusApproved, testNow)
	sorted := []*models.Candidate{
		cand("ADR-001#0001", doc, 0.9),
		cand("ADR-001#0002", doc, 0.8),
	}
	got := Select(sorted, 5, map[models.DocType]int{models.DocTypeADR: 5})
	if len(got) != 1 {
		t.Errorf("Expected 1 result (never padded), got %d", len(got))
	}
}

// Mixed scenario: 5 chunks of an approved standard and 3 chunks of a
// deprecated postmortem; the deprecated doc is demoted but still cited once.
func TestSelectDemotedDocStillCited(t *testing.T) {
	docA := testDoc("STD-01", models.DocTypeStandard, models.StatusApproved,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	docB := testDoc("PM-2021-03", models.DocTypePostmortem, models.StatusDeprecated,
		time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC))

	candidates := []*models.Candidate{
		cand("STD-01#0001", docA, 0.82),
		cand("STD-01#0002", docA, 0.80),
		cand("STD-01#0003", docA, 0.75),
		cand("STD-01#0004", docA, 0.70),
		cand("STD-01#0005", docA, 0.65),
		cand("PM-2021-03#0001", docB, 0.40),
		cand("PM-2021-03#0002", docB, 0.35),
		cand("PM-2021-03#0003", docB, 0.30),
	}
	SortCandidates(candidates)
	got := Select(candidates, 2, map[models.DocType]int{
		models.DocTypeStandard:   1,
		models.DocTypePostmortem: 1,
	})
	if len(got) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(got))
	}
	if got[0].Document.ID != "STD-01" || got[1].Document.ID != "PM-2021-03" {
		t.Errorf("Expected [STD-01, PM-2021-03], got [%s, %s]", got[0].Document.ID, got[1].Document.ID)
	}
	if got[0].ChunkID != "STD-01#0001" {
		t.Errorf("Expected best chunk of STD-01, got %s", got[0].ChunkID)
	}
}
