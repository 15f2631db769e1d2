package vector

import "fmt"

// IndexType selects a vector index implementation.
type IndexType string

const (
	// IndexTypeMemory uses in-memory brute-force search. Fine below ~10k chunks.
	IndexTypeMemory IndexType = "memory"
	// IndexTypeFAISS uses FAISS for ANN search on large corpora.
	// Requires the FAISS library and building with -tags=faiss.
	IndexTypeFAISS IndexType = "faiss"
)

// NewVectorIndex creates a vector index of the given type ("memory" by
// default, or "faiss").
func NewVectorIndex(indexType string, dimensions int) (VectorIndex, error) {
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	case IndexTypeFAISS:
		return NewFAISSIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory, faiss)", indexType)
	}
}

// IsFAISSAvailable reports whether FAISS support was compiled in.
func IsFAISSAvailable() bool {
	idx, err := NewFAISSIndex(1)
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
