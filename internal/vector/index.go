// Package vector provides the similarity index over chunk embeddings.
package vector

import "context"

// VectorIndex defines embedding storage and nearest-neighbor search.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Remove(ctx context.Context, ids []string) error
	Save(path string) error
	Load(path string) error
	Size() int
	Close() error
}

// VectorResult is a single nearest-neighbor hit. ID is the chunk ID.
type VectorResult struct {
	ID    string
	Score float64 // Inner product; cosine similarity for normalized vectors.
}
