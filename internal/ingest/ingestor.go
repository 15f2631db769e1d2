package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/shirabe/internal/embedding"
	"github.com/hyperjump/shirabe/internal/extract"
	"github.com/hyperjump/shirabe/internal/models"
	"github.com/hyperjump/shirabe/internal/storage"
	"github.com/hyperjump/shirabe/internal/vector"
)

// Ingestor loads governed documents into storage and the vector index:
// extract, parse, validate, chunk, embed, store, index.
type Ingestor struct {
	store       storage.Storage
	embedder    embedding.Embedder
	vectorIndex vector.VectorIndex
	chunker     *Chunker
	extractor   *extract.Extractor
	strict      bool
	logger      *zap.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithLogger sets a logger for per-file progress.
func WithLogger(l *zap.Logger) Option {
	return func(in *Ingestor) { in.logger = l }
}

// WithStrictValidation makes metadata errors fail ingestion of the file
// instead of being logged and tolerated.
func WithStrictValidation(strict bool) Option {
	return func(in *Ingestor) { in.strict = strict }
}

// NewIngestor creates an ingestor. extractor may be nil, in which case files
// are read as plain text.
func NewIngestor(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	chunkSize, chunkOverlap int,
	extractor *extract.Extractor,
	opts ...Option,
) *Ingestor {
	in := &Ingestor{
		store:       store,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		chunker:     NewChunker(chunkSize, chunkOverlap),
		extractor:   extractor,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// IngestFile extracts, parses, and indexes one corpus file. Validation
// errors are logged; in strict mode they abort the file.
func (in *Ingestor) IngestFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	text, err := in.extractContent(absPath)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}

	issues := ValidateFile(absPath, text)
	for _, issue := range issues {
		if issue.Level == LevelError {
			in.logger.Warn("metadata validation error",
				zap.String("path", absPath),
				zap.String("message", issue.Message))
		} else {
			in.logger.Debug("metadata validation warning",
				zap.String("path", absPath),
				zap.String("message", issue.Message))
		}
	}
	if in.strict && HasErrors(issues) {
		return fmt.Errorf("%s: metadata validation failed", absPath)
	}

	doc, err := ParseDocument(absPath, text)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	return in.IngestDocument(ctx, doc)
}

// IngestDocument stores a parsed document and indexes its chunks, replacing
// any previous version of the same document.
func (in *Ingestor) IngestDocument(ctx context.Context, doc *models.Document) error {
	// Replace rather than accumulate: drop the previous chunks first.
	if err := in.removeChunks(ctx, doc.ID); err != nil {
		return err
	}

	if err := in.store.CreateDocument(ctx, doc); err != nil {
		return fmt.Errorf("store document %s: %w", doc.ID, err)
	}

	chunks := in.chunker.Chunk(doc.ID, doc.Content)
	if len(chunks) == 0 {
		chunks = []*models.DocumentChunk{{
			ID:         ChunkID(doc.ID, 0),
			DocumentID: doc.ID,
			Ordinal:    0,
			Content:    doc.Content,
		}}
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := in.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks for %s: %w", doc.ID, err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	if err := in.store.BatchCreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks for %s: %w", doc.ID, err)
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := in.vectorIndex.Add(ctx, chunkIDs, embeddings); err != nil {
		return fmt.Errorf("index chunks for %s: %w", doc.ID, err)
	}

	in.logger.Debug("document ingested",
		zap.String("doc_id", doc.ID),
		zap.String("doc_type", string(doc.Type)),
		zap.Int("chunks", len(chunks)))
	return nil
}

// RunStats summarizes one corpus ingestion run.
type RunStats struct {
	RunID     string
	Files     int
	Documents int
	Failed    int
}

// IngestDirectory walks dir recursively and ingests every markdown, text,
// PDF, DOCX, and XLSX file. Per-file failures are counted and logged, not
// fatal; the first walk error aborts.
func (in *Ingestor) IngestDirectory(ctx context.Context, dir string) (*RunStats, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", absDir)
	}

	stats := &RunStats{RunID: uuid.New().String()[:8]}
	in.logger.Info("corpus ingestion started",
		zap.String("run_id", stats.RunID),
		zap.String("dir", absDir))

	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !ingestibleExt(filepath.Ext(path)) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		stats.Files++
		if ingestErr := in.IngestFile(ctx, path); ingestErr != nil {
			stats.Failed++
			in.logger.Warn("file ingestion failed",
				zap.String("run_id", stats.RunID),
				zap.String("path", path),
				zap.Error(ingestErr))
			return nil
		}
		stats.Documents++
		return nil
	})
	if err != nil {
		return stats, err
	}

	in.logger.Info("corpus ingestion finished",
		zap.String("run_id", stats.RunID),
		zap.Int("files", stats.Files),
		zap.Int("documents", stats.Documents),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// DeleteDocument removes a document from storage and the vector index.
func (in *Ingestor) DeleteDocument(ctx context.Context, id string) error {
	if err := in.removeChunks(ctx, id); err != nil {
		return err
	}
	if err := in.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

func (in *Ingestor) removeChunks(ctx context.Context, docID string) error {
	chunks, err := in.store.GetChunksByDocumentID(ctx, docID)
	if err != nil {
		return fmt.Errorf("get chunks for %s: %w", docID, err)
	}
	if len(chunks) == 0 {
		return nil
	}
	chunkIDs := make([]string, len(chunks))
	for i, ch := range chunks {
		chunkIDs[i] = ch.ID
	}
	if err := in.vectorIndex.Remove(ctx, chunkIDs); err != nil {
		return fmt.Errorf("remove vectors for %s: %w", docID, err)
	}
	if err := in.store.DeleteChunksByDocumentID(ctx, docID); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", docID, err)
	}
	return nil
}

func (in *Ingestor) extractContent(path string) (string, error) {
	if in.extractor != nil {
		return in.extractor.Extract(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func ingestibleExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".md", ".txt", ".pdf", ".docx", ".xlsx":
		return true
	}
	return false
}
