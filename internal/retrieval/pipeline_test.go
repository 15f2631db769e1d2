package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/shirabe/internal/embedding"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/internal/vector"
)

const testDims = 16

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type corpusDoc struct {
	id      string
	docType models.DocType
	status  models.Status
	system  string
	updated time.Time
	chunks  []string
}

func buildPipeline(t *testing.T, docs []corpusDoc) (*Pipeline, storage.Storage, vector.VectorIndex) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	embedder := embedding.NewMockEmbedder(testDims)
	idx, err := vector.NewMemoryIndex(testDims)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, d := range docs {
		doc := &models.Document{
			ID:          d.id,
			Type:        d.docType,
			Title:       d.id + " title",
			Status:      d.status,
			System:      d.system,
			OwnerTeam:   "team",
			Version:     "1.0",
			LastUpdated: d.updated,
			Content:     "content of " + d.id,
		}
		if err := store.CreateDocument(ctx, doc); err != nil {
			t.Fatalf("CreateDocument(%s): %v", d.id, err)
		}
		for i, text := range d.chunks {
			chunk := &models.DocumentChunk{
				ID:         fmt.Sprintf("%s#%04d", d.id, i),
				DocumentID: d.id,
				Ordinal:    i,
				Content:    text,
			}
			if err := store.BatchCreateChunks(ctx, []*models.DocumentChunk{chunk}); err != nil {
				t.Fatal(err)
			}
			vec, err := embedder.Embed(ctx, text)
			if err != nil {
				t.Fatal(err)
			}
			if err := idx.Add(ctx, []string{chunk.ID}, [][]float32{vec}); err != nil {
				t.Fatal(err)
			}
		}
	}

	return NewPipeline(embedder, idx, store, nil, nil), store, idx
}

func defaultCorpus() []corpusDoc {
	return []corpusDoc{
		{"STD-01", models.DocTypeStandard, models.StatusApproved, "identity", fixedNow.AddDate(0, -2, 0),
			[]string{"token rotation policy for services", "key rotation every ninety days", "signing key custody rules"}},
		{"STD-02", models.DocTypeStandard, models.StatusDraft, "identity", fixedNow.AddDate(0, -1, 0),
			[]string{"draft token rotation addendum"}},
		{"ADR-01", models.DocTypeADR, models.StatusApproved, "identity", fixedNow.AddDate(-1, 0, 0),
			[]string{"decision to centralize token rotation"}},
		{"PM-2024-09", models.DocTypePostmortem, models.StatusApproved, "identity", fixedNow.AddDate(0, -8, 0),
			[]string{"token rotation outage postmortem", "rotation incident timeline"}},
		{"RBK-01", models.DocTypeRunbook, models.StatusApproved, "identity", fixedNow.AddDate(0, -3, 0),
			[]string{"rotate tokens during incident"}},
	}
}

func baseRequest() *models.RetrieveRequest {
	return &models.RetrieveRequest{
		Query:         "token rotation policy",
		TopK:          5,
		CandidatePool: 20,
		Quotas: map[models.DocType]int{
			models.DocTypeStandard:   2,
			models.DocTypeADR:        2,
			models.DocTypeRunbook:    1,
			models.DocTypePostmortem: 1,
			models.DocTypeTemplate:   1,
		},
		Now: fixedNow,
	}
}

func TestRetrieveBasicInvariants(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	resp, err := p.Retrieve(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	if len(resp.Results) > 5 {
		t.Errorf("len(results) = %d exceeds top_k", len(resp.Results))
	}

	seenDocs := make(map[string]bool)
	typeCounts := make(map[models.DocType]int)
	for i, r := range resp.Results {
		if r.Rank != i+1 {
			t.Errorf("result %d rank = %d", i, r.Rank)
		}
		if seenDocs[r.DocID] {
			t.Errorf("document %s appears twice", r.DocID)
		}
		seenDocs[r.DocID] = true
		typeCounts[r.DocType]++
		if i > 0 && resp.Results[i-1].FinalScore < r.FinalScore {
			t.Errorf("results not sorted by final score at %d", i)
		}
		if len(r.Reasons) == 0 {
			t.Errorf("result %s has no reasons", r.DocID)
		}
	}
	if typeCounts[models.DocTypeStandard] > 2 {
		t.Errorf("standard quota exceeded: %d", typeCounts[models.DocTypeStandard])
	}
	if typeCounts[models.DocTypePostmortem] > 1 {
		t.Errorf("postmortem quota exceeded: %d", typeCounts[models.DocTypePostmortem])
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	req := baseRequest()
	a, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	aj, _ := json.Marshal(a.Results)
	bj, _ := json.Marshal(b.Results)
	if string(aj) != string(bj) {
		t.Errorf("repeated retrieval differs:\n%s\n%s", aj, bj)
	}
}

func TestRetrieveExcludesStatuses(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	req := baseRequest()
	req.ExcludedStatuses = []models.Status{models.StatusWithdrawn, models.StatusDraft}
	resp, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range resp.Results {
		if r.Status == models.StatusDraft {
			t.Errorf("draft document %s not excluded", r.DocID)
		}
	}
}

func TestRetrieveExcludesDocTypes(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	req := baseRequest()
	req.ExcludedDocTypes = []models.DocType{models.DocTypePostmortem}
	resp, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range resp.Results {
		if r.DocType == models.DocTypePostmortem {
			t.Errorf("postmortem %s not excluded", r.DocID)
		}
	}
}

func TestRetrieveZeroQuotaNeverAdmits(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	req := baseRequest()
	req.Quotas = map[models.DocType]int{models.DocTypeStandard: 0, models.DocTypeADR: 1}
	resp, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range resp.Results {
		if r.DocType == models.DocTypeStandard {
			t.Errorf("zero-quota standard %s admitted", r.DocID)
		}
	}
	// Fewer admissible candidates than top_k: never padded.
	if len(resp.Results) > 1 {
		t.Errorf("len(results) = %d, want at most 1 (only ADR admissible)", len(resp.Results))
	}
}

func TestRetrieveDanglingChunkSkipped(t *testing.T) {
	p, _, idx := buildPipeline(t, defaultCorpus())
	ctx := context.Background()

	// Point the index at a chunk the store has never seen.
	embedder := embedding.NewMockEmbedder(testDims)
	vec, _ := embedder.Embed(ctx, "token rotation policy")
	if err := idx.Add(ctx, []string{"GHOST#0000"}, [][]float32{vec}); err != nil {
		t.Fatal(err)
	}

	resp, err := p.Retrieve(ctx, baseRequest())
	if err != nil {
		t.Fatalf("dangling chunk must not abort retrieval: %v", err)
	}
	for _, r := range resp.Results {
		if r.ChunkID == "GHOST#0000" {
			t.Error("dangling chunk surfaced in results")
		}
	}
}

func TestRetrieveEmptyIndex(t *testing.T) {
	p, _, _ := buildPipeline(t, nil)

	_, err := p.Retrieve(context.Background(), baseRequest())
	if !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("err = %v, want ErrIndexUnavailable", err)
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("model exploded")
}
func (failingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("model exploded")
}
func (failingEmbedder) Dimensions() int { return testDims }
func (failingEmbedder) Close() error    { return nil }

func TestRetrieveEmbeddingFailure(t *testing.T) {
	_, store, idx := buildPipeline(t, defaultCorpus())
	p := NewPipeline(failingEmbedder{}, idx, store, nil, nil)

	_, err := p.Retrieve(context.Background(), baseRequest())
	if !errors.Is(err, ErrEmbedding) {
		t.Errorf("err = %v, want ErrEmbedding", err)
	}
}

func TestRetrieveDeadlineExceeded(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := p.Retrieve(ctx, baseRequest())
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestRetrieveInvalidRequest(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	if _, err := p.Retrieve(context.Background(), &models.RetrieveRequest{Query: "  "}); err == nil {
		t.Error("expected error for empty query")
	}
	if _, err := p.Retrieve(context.Background(), &models.RetrieveRequest{Query: "x", TopK: -1}); err == nil {
		t.Error("expected error for negative top_k")
	}
}

func TestRetrieveResultShape(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	resp, err := p.Retrieve(context.Background(), baseRequest())
	if err != nil {
		t.Fatal(err)
	}
	r := resp.Results[0]
	if r.DocID == "" || r.ChunkID == "" || r.Title == "" {
		t.Errorf("missing identity fields: %+v", r)
	}
	if r.LastUpdated == "" {
		t.Error("expected formatted last_updated")
	}
	if len(r.Preview) > 220 {
		t.Errorf("preview length = %d exceeds cap", len(r.Preview))
	}
	if resp.Query != "token rotation policy" {
		t.Errorf("query echo = %q", resp.Query)
	}
}

func TestRetrieveIntentQuotasApplied(t *testing.T) {
	p, _, _ := buildPipeline(t, defaultCorpus())

	// No explicit quotas: intent analysis should derive them. A runbook query
	// must not be crowded out entirely by standards.
	req := &models.RetrieveRequest{
		Query: "runbook for token rotation incident mitigation",
		TopK:  5,
		Now:   fixedNow,
	}
	resp, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	counts := make(map[models.DocType]int)
	for _, r := range resp.Results {
		counts[r.DocType]++
	}
	if counts[models.DocTypeStandard] > 3 {
		t.Errorf("standard count %d exceeds any intent quota", counts[models.DocTypeStandard])
	}
}

func TestRetrievePolicyOrderingBeatsRawSimilarity(t *testing.T) {
	// Deprecated doc shares the exact chunk text with an approved one, so raw
	// scores tie; the status rule must put the approved one first.
	docs := []corpusDoc{
		{"STD-10", models.DocTypeStandard, models.StatusApproved, "identity", fixedNow.AddDate(0, -1, 0),
			[]string{"identical chunk text"}},
		{"STD-11", models.DocTypeStandard, models.StatusDeprecated, "identity", fixedNow.AddDate(0, -1, 0),
			[]string{"identical chunk text"}},
	}
	p, _, _ := buildPipeline(t, docs)

	req := baseRequest()
	req.Query = "identical chunk text"
	resp, err := p.Retrieve(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].DocID != "STD-10" {
		t.Errorf("approved doc should rank first, got %s", resp.Results[0].DocID)
	}
	if resp.Results[0].FinalScore <= resp.Results[1].FinalScore {
		t.Error("approved doc should have strictly higher final score")
	}
}
