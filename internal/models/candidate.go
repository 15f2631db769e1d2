package models

// Candidate is a transient per-query record: one similarity hit with its
// resolved document and chunk metadata. Created by the candidate retriever,
// scored once by the policy scorer, consumed by the selector; never persisted.
type Candidate struct {
	ChunkID  string
	RawScore float64
	Chunk    *DocumentChunk
	Document *Document

	// AdjustedScore is RawScore plus the sum of applicable policy rule deltas.
	// Unset (equal to RawScore semantics do not apply) until scoring runs.
	AdjustedScore float64
	// Reasons records each applied rule's contribution, e.g. "boost: status=approved".
	Reasons []string
}

// ResultEntry is one citation in the final answer set.
type ResultEntry struct {
	Rank        int     `json:"rank"`
	DocID       string  `json:"doc_id"`
	ChunkID     string  `json:"chunk_id"`
	DocType     DocType `json:"doc_type"`
	Title       string  `json:"title,omitempty"`
	FinalScore  float64 `json:"final_score"`
	RawScore    float64 `json:"raw_score"`
	System      string  `json:"system,omitempty"`
	Status      Status  `json:"status"`
	Version     string  `json:"version,omitempty"`
	LastUpdated string  `json:"last_updated,omitempty"`
	Preview     string  `json:"preview,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
}

// RetrieveResponse is the response for a retrieval request.
type RetrieveResponse struct {
	Query     string         `json:"query"`
	Results   []*ResultEntry `json:"results"`
	QueryTime int64          `json:"query_time_ms"`
}
