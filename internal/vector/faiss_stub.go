//go:build !faiss || !cgo
// +build !faiss !cgo

package vector

import (
	"context"
	"fmt"
)

// FAISSIndex is a stub used when the faiss build tag is not set. Every
// operation fails; build with -tags=faiss to enable FAISS support.
type FAISSIndex struct{}

// NewFAISSIndex returns an error because FAISS support is not compiled in.
func NewFAISSIndex(dimensions int) (*FAISSIndex, error) {
	return nil, fmt.Errorf("FAISS not available: build with -tags=faiss and install FAISS library")
}

func (f *FAISSIndex) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	return fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	return nil, fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Remove(ctx context.Context, ids []string) error {
	return fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Save(path string) error {
	return fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Load(path string) error {
	return fmt.Errorf("FAISS not available")
}

func (f *FAISSIndex) Size() int {
	return 0
}

func (f *FAISSIndex) Close() error {
	return nil
}

// Type returns the index type identifier.
func (f *FAISSIndex) Type() string {
	return string(IndexTypeFAISS)
}
