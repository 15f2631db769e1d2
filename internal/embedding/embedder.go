// Package embedding turns query and chunk text into vectors, via ONNX
// Runtime when available or a deterministic hash embedder for tests and
// offline development.
package embedding

import (
	"context"
	"fmt"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// NewEmbedder creates an embedder of the given type. "mock" needs no model;
// "onnx" requires CGO, the onnxruntime library, and a model file.
func NewEmbedder(embedderType, modelPath string, dimensions, maxTokens, cacheSize int) (Embedder, error) {
	switch embedderType {
	case "mock", "":
		return NewMockEmbedder(dimensions), nil
	case "onnx":
		return NewONNXEmbedder(modelPath, dimensions, maxTokens, cacheSize)
	default:
		return nil, fmt.Errorf("unknown embedder type: %s (supported: mock, onnx)", embedderType)
	}
}
