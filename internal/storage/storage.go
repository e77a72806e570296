// Package storage defines the persistence contract for document records and
// provides the SQLite implementation plus the raw-file accessor.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/docscan/docvault/internal/models"
)

// ErrNotFound indicates a missing document or category.
var ErrNotFound = errors.New("not found")

// DocumentUpdate is a partial update; nil fields are left untouched.
type DocumentUpdate struct {
	Title            *string
	ExtractedText    *string
	StructuredText   *models.StructuredText
	Categories       *[]string
	Tags             *[]string
	ProcessingStatus *models.ProcessingStatus
	ProcessedDate    *time.Time
}

// Storage defines document and category persistence operations.
// Implementations must return categories/tags as materialized slices and
// structuredText as a decoded value or nil, regardless of how rows encode
// them internally.
type Storage interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	GetDocumentByPath(ctx context.Context, filePath string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	UpdateDocument(ctx context.Context, id int64, update DocumentUpdate) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error

	// ListPendingWork returns the worker's worklist in ascending id order:
	// pending documents plus completed ones whose extracted text is empty.
	ListPendingWork(ctx context.Context) ([]*models.Document, error)

	CountByStatus(ctx context.Context) (map[models.ProcessingStatus]int64, error)

	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, cat *models.Category) error
	UpdateCategory(ctx context.Context, id int64, name, color string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	Close() error
}
