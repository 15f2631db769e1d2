package models

import (
	"fmt"
	"strings"
	"time"
)

// RetrieveRequest is a single retrieval request. Given a fixed corpus snapshot
// and a fixed Now, identical requests produce identical ordered output.
type RetrieveRequest struct {
	Query string `json:"query"`
	// TopK caps the final result list size.
	TopK int `json:"top_k,omitempty"`
	// CandidatePool is how many nearest neighbors to pull before policy
	// scoring and selection (must be >= TopK to be useful).
	CandidatePool int `json:"candidate_pool,omitempty"`
	// Quotas caps results per doc type. When nil, quotas are derived from
	// query intent. A doc type absent from a non-nil map is never admitted.
	Quotas map[DocType]int `json:"doc_type_quotas,omitempty"`
	// ExcludedStatuses are removed outright before scoring (hard filter).
	// When nil, defaults to {withdrawn}.
	ExcludedStatuses []Status `json:"excluded_statuses,omitempty"`
	// ExcludedDocTypes are removed outright before scoring (hard filter).
	ExcludedDocTypes []DocType `json:"excluded_doc_types,omitempty"`
	// TargetSystem boosts documents tagged with this system. When empty, a
	// target system may be inferred from the query.
	TargetSystem string `json:"target_system,omitempty"`
	// Now anchors freshness scoring. Zero means time.Now() at execution.
	Now time.Time `json:"now,omitempty"`
}

// Validate checks required fields and fills defaults. Returns an error for an
// empty query or a non-positive explicit TopK/CandidatePool.
func (r *RetrieveRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if r.TopK < 0 {
		return fmt.Errorf("top_k must be positive, got %d", r.TopK)
	}
	if r.CandidatePool < 0 {
		return fmt.Errorf("candidate_pool must be positive, got %d", r.CandidatePool)
	}
	if r.TopK == 0 {
		r.TopK = 5
	}
	if r.CandidatePool == 0 {
		r.CandidatePool = 20
	}
	if r.CandidatePool < r.TopK {
		r.CandidatePool = r.TopK
	}
	if r.ExcludedStatuses == nil {
		r.ExcludedStatuses = []Status{StatusWithdrawn}
	}
	return nil
}
