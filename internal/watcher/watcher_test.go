package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu       sync.Mutex
	ingested []string
	removed  []string
}

func (r *recorder) onIngest(path string) {
	r.mu.Lock()
	r.ingested = append(r.ingested, path)
	r.mu.Unlock()
}

func (r *recorder) onRemove(path string) {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
}

func (r *recorder) ingestedPaths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ingested...)
}

func TestWatcherIngestsNewCorpusFile(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, rec.onRemove, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "ADR-001-queue.md")
	if err := os.WriteFile(path, []byte("# ADR-001: Queue\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)

	got := rec.ingestedPaths()
	if len(got) < 1 {
		t.Fatalf("expected at least one ingest callback, got %d", len(got))
	}
	if !strings.HasSuffix(got[0], "ADR-001-queue.md") {
		t.Errorf("ingested = %v", got)
	}
}

func TestWatcherExtensionFilter(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := NewWatcher([]string{dir}, []string{".md", ".txt"}, true, rec.onIngest, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.log"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(600 * time.Millisecond)

	if got := rec.ingestedPaths(); len(got) != 0 {
		t.Errorf("non-corpus extension should be ignored, got %v", got)
	}
}

func TestMatchExtension(t *testing.T) {
	w := &Watcher{extensions: []string{".md"}}
	tests := []struct {
		path string
		want bool
	}{
		{"/corpus/STD-01.md", true},
		{"/corpus/STD-01.MD", true},
		{"/corpus/STD-01.txt", false},
	}
	for _, tt := range tests {
		if got := w.matchExtension(tt.path); got != tt.want {
			t.Errorf("matchExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	any := &Watcher{}
	if !any.matchExtension("/corpus/whatever") {
		t.Error("empty extension list should match everything")
	}
}

func TestSyncExistingFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "RBK-01-restart.md"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.xyz"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	w.SyncExistingFiles()

	got := rec.ingestedPaths()
	if len(got) != 1 || !strings.HasSuffix(got[0], "RBK-01-restart.md") {
		t.Errorf("expected one synced file, got %v", got)
	}
}

func TestStartCreatesMissingRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "corpus", "docs")

	w := NewWatcher([]string{root}, []string{".md"}, true, nil, nil, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root should exist after Start: %v", err)
	}
}

func TestNewDirectoryIngestedRecursively(t *testing.T) {
	dir := t.TempDir()
	rec := &recorder{}

	w := NewWatcher([]string{dir}, []string{".md"}, true, rec.onIngest, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	nested := filepath.Join(dir, "standards", "infra")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nested, "STD-07-naming.md"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(800 * time.Millisecond)

	found := false
	for _, p := range rec.ingestedPaths() {
		if strings.HasSuffix(p, "STD-07-naming.md") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected STD-07-naming.md to be ingested, got %v", rec.ingestedPaths())
	}
}
