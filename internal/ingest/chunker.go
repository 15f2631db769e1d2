package ingest

import (
	"fmt"
	"strings"

	"github.com/hyperjump/shirabe/internal/models"
)

// Chunker splits document text into overlapping word windows. Chunk IDs are
// deterministic ("<docID>#<ordinal>") so re-ingesting an unchanged document
// produces identical IDs and the index stays stable.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given window size and overlap, in
// words.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits text into DocumentChunks with overlapping windows. Empty text
// yields nil.
func (c *Chunker) Chunk(docID, text string) []*models.DocumentChunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}
	var chunks []*models.DocumentChunk
	ordinal := 0
	for i := 0; i < len(words); i += step {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, &models.DocumentChunk{
			ID:         ChunkID(docID, ordinal),
			DocumentID: docID,
			Ordinal:    ordinal,
			Content:    strings.Join(words[i:end], " "),
		})
		ordinal++
		if end >= len(words) {
			break
		}
	}
	return chunks
}

// ChunkID returns the deterministic ID of a document's nth chunk.
func ChunkID(docID string, ordinal int) string {
	return fmt.Sprintf("%s#%04d", docID, ordinal)
}
