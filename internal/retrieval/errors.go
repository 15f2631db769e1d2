// Package retrieval runs the policy-aware retrieval pipeline: embed the
// query, pull nearest-neighbor candidates, apply governance scoring, then
// dedup and quota selection into a citation list.
package retrieval

import (
	"context"
	"errors"
	"fmt"
)

// Error taxonomy. EmbeddingError, IndexUnavailable, and TimeoutExceeded abort
// the query with zero results; NotFound is absorbed per candidate (dangling
// index reference: skip and log). An empty result list without an error means
// "no matching governed documents", never a masked collaborator failure.
var (
	// ErrEmbedding means the query could not be vectorized.
	ErrEmbedding = errors.New("embedding failed")
	// ErrIndexUnavailable means the similarity index cannot serve (unreachable or empty).
	ErrIndexUnavailable = errors.New("similarity index unavailable")
	// ErrNotFound means an id referenced by the index is absent from the corpus store.
	ErrNotFound = errors.New("not found")
	// ErrTimeout means a collaborator call exceeded the caller's deadline.
	ErrTimeout = errors.New("deadline exceeded")
)

// stageError wraps err with the failing pipeline stage, converting context
// deadline errors to ErrTimeout so callers can tell "no answer" from "slow
// answer".
func stageError(stage string, sentinel, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", stage, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", stage, sentinel, err)
}
