// Package storage defines the read/write corpus store for governed documents
// and their chunks. At query time the store is treated as an immutable
// snapshot; writes happen only during ingestion.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/shirabe/internal/models"
)

// ErrNotFound is returned when a document or chunk id is absent from the
// store. At retrieval time this signals a dangling index reference.
var ErrNotFound = errors.New("not found")

// Storage defines document and chunk persistence operations.
type Storage interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocumentBySourcePath(ctx context.Context, path string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)

	// Chunk operations
	GetChunk(ctx context.Context, id string) (*models.DocumentChunk, error)
	GetChunksByDocumentID(ctx context.Context, docID string) ([]*models.DocumentChunk, error)
	BatchCreateChunks(ctx context.Context, chunks []*models.DocumentChunk) error
	DeleteChunksByDocumentID(ctx context.Context, docID string) error

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
