package ingest

import (
	"strings"
	"testing"
)

func TestChunkerOverlap(t *testing.T) {
	c := NewChunker(4, 1)
	words := []string{"a", "b", "c", "d", "e", "f", "g"}
	chunks := c.Chunk("STD-01", strings.Join(words, " "))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "a b c d" {
		t.Errorf("chunk 0 = %q", chunks[0].Content)
	}
	if chunks[1].Content != "d e f g" {
		t.Errorf("chunk 1 = %q", chunks[1].Content)
	}
	for i, ch := range chunks {
		if ch.Ordinal != i {
			t.Errorf("chunk %d ordinal = %d", i, ch.Ordinal)
		}
		if ch.DocumentID != "STD-01" {
			t.Errorf("chunk %d document = %q", i, ch.DocumentID)
		}
	}
}

func TestChunkerDeterministicIDs(t *testing.T) {
	c := NewChunker(3, 0)
	a := c.Chunk("ADR-004", "one two three four five")
	b := c.Chunk("ADR-004", "one two three four five")
	if len(a) != len(b) {
		t.Fatal("chunk counts differ")
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("chunk %d ID differs: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
	if a[0].ID != "ADR-004#0000" {
		t.Errorf("ID = %q, want ADR-004#0000", a[0].ID)
	}
}

func TestChunkerEmptyText(t *testing.T) {
	c := NewChunker(10, 2)
	if chunks := c.Chunk("STD-01", "   \n  "); chunks != nil {
		t.Errorf("expected nil for empty text, got %d chunks", len(chunks))
	}
}

func TestChunkerOverlapAtLeastOneStep(t *testing.T) {
	// Overlap >= size must still advance.
	c := NewChunker(2, 5)
	chunks := c.Chunk("STD-01", "a b c d")
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if len(chunks) > 4 {
		t.Errorf("step did not advance: %d chunks", len(chunks))
	}
}
