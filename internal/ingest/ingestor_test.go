package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/shirabe/internal/embedding"
	"github.com/hyperjump/shirabe/internal/extract"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/internal/vector"
)

func newTestIngestor(t *testing.T) (*Ingestor, storage.Storage, vector.VectorIndex) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	idx, err := vector.NewMemoryIndex(16)
	if err != nil {
		t.Fatal(err)
	}
	in := NewIngestor(store, embedding.NewMockEmbedder(16), idx, 50, 10, extract.NewExtractor())
	return in, store, idx
}

func writeCorpusFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestFile(t *testing.T) {
	in, store, idx := newTestIngestor(t)
	ctx := context.Background()

	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "ADR-009-centralized-auth.md", sampleADR)

	if err := in.IngestFile(ctx, path); err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	doc, err := store.GetDocument(ctx, "ADR-009")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if doc.Title != "Centralized Authentication using OAuth2/OIDC" {
		t.Errorf("Title = %q", doc.Title)
	}

	chunks, err := store.GetChunksByDocumentID(ctx, "ADR-009")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	if idx.Size() != len(chunks) {
		t.Errorf("index size = %d, chunks = %d", idx.Size(), len(chunks))
	}
}

func TestIngestFileReplacesPrevious(t *testing.T) {
	in, store, idx := newTestIngestor(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := writeCorpusFile(t, dir, "ADR-009-centralized-auth.md", sampleADR)

	if err := in.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	firstSize := idx.Size()

	if err := in.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	if idx.Size() != firstSize {
		t.Errorf("re-ingest changed index size: %d -> %d", firstSize, idx.Size())
	}

	count, _ := store.CountDocuments(ctx)
	if count != 1 {
		t.Errorf("document count = %d, want 1", count)
	}
}

func TestIngestFileStrictValidation(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	idx, _ := vector.NewMemoryIndex(16)
	in := NewIngestor(store, embedding.NewMockEmbedder(16), idx, 50, 10, extract.NewExtractor(),
		WithStrictValidation(true))

	// Missing most required ADR fields.
	text := "# ADR-001: Something\nstatus: approved\n\nBody.\n"
	path := writeCorpusFile(t, t.TempDir(), "ADR-001-something.md", text)

	if err := in.IngestFile(context.Background(), path); err == nil {
		t.Error("expected strict validation failure")
	}
}

func TestIngestDirectory(t *testing.T) {
	in, store, _ := newTestIngestor(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeCorpusFile(t, dir, "ADR-009-centralized-auth.md", sampleADR)
	writeCorpusFile(t, dir, "STD-02-service-tokens.md", `# STD-02: Service Token Standard
status: approved
system: identity
owner_team: platform-security
version: 1.1
last_updated: 2025-03-01

Tokens must be short-lived.
`)
	// Not a governed doc: counted as failed, not fatal.
	writeCorpusFile(t, dir, "RBK-99-broken.md", "no title here\n")
	// Ignored extension.
	writeCorpusFile(t, dir, "notes.log", "ignore me")

	stats, err := in.IngestDirectory(ctx, dir)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if stats.Files != 3 {
		t.Errorf("Files = %d, want 3", stats.Files)
	}
	if stats.Documents != 2 {
		t.Errorf("Documents = %d, want 2", stats.Documents)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1", stats.Failed)
	}
	if stats.RunID == "" {
		t.Error("RunID should be set")
	}

	count, _ := store.CountDocuments(ctx)
	if count != 2 {
		t.Errorf("document count = %d, want 2", count)
	}
}

func TestDeleteDocument(t *testing.T) {
	in, store, idx := newTestIngestor(t)
	ctx := context.Background()
	path := writeCorpusFile(t, t.TempDir(), "ADR-009-centralized-auth.md", sampleADR)

	if err := in.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	if err := in.DeleteDocument(ctx, "ADR-009"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("index size = %d after delete", idx.Size())
	}
	count, _ := store.CountDocuments(ctx)
	if count != 0 {
		t.Errorf("document count = %d after delete", count)
	}
}
