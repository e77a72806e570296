// Package models defines core data structures for documents, structured text, and search filters.
package models

import "time"

// ProcessingStatus is the lifecycle state of a document in the pipeline.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Valid reports whether s is one of the four canonical statuses.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Document represents an uploaded document and its derived data.
// Categories and Tags are always materialized slices, never nil.
// StructuredText is non-nil only after a document has been successfully processed.
type Document struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	OriginalName     string           `json:"originalName"`
	FileType         string           `json:"fileType"`
	FileSize         int64            `json:"fileSize"`
	FilePath         string           `json:"filePath"`
	ExtractedText    *string          `json:"extractedText"`
	StructuredText   *StructuredText  `json:"structuredText"`
	Categories       []string         `json:"categories"`
	Tags             []string         `json:"tags"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	UploadDate       time.Time        `json:"uploadDate"`
	ProcessedDate    *time.Time       `json:"processedDate"`
}

// Category is a user-defined grouping for documents.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
