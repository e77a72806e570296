// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/docscan/docvault/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		original_name TEXT NOT NULL,
		file_type TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		file_path TEXT NOT NULL,
		extracted_text TEXT,
		structured_text TEXT,
		categories TEXT NOT NULL DEFAULT '[]',
		tags TEXT NOT NULL DEFAULT '[]',
		processing_status TEXT NOT NULL DEFAULT 'pending',
		upload_date TIMESTAMP NOT NULL,
		processed_date TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(processing_status);
	CREATE INDEX IF NOT EXISTS idx_documents_upload_date ON documents(upload_date);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

const documentColumns = `id, title, original_name, file_type, file_size, file_path,
	extracted_text, structured_text, categories, tags, processing_status,
	upload_date, processed_date`

// CreateDocument inserts a document and assigns its id and upload date.
func (s *SQLiteStorage) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc.Categories == nil {
		doc.Categories = []string{}
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.ProcessingStatus == "" {
		doc.ProcessingStatus = models.StatusPending
	}
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now()
	}

	categories, err := json.Marshal(doc.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tags: %w", err)
	}
	structured, err := marshalStructured(doc.StructuredText)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (title, original_name, file_type, file_size, file_path,
			extracted_text, structured_text, categories, tags, processing_status,
			upload_date, processed_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.Title, doc.OriginalName, doc.FileType, doc.FileSize, doc.FilePath,
		nullableString(doc.ExtractedText), structured, string(categories), string(tags),
		string(doc.ProcessingStatus), doc.UploadDate, nullableTime(doc.ProcessedDate),
	)
	if err != nil {
		return err
	}
	doc.ID, err = res.LastInsertId()
	return err
}

// GetDocument returns a document by id.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// GetDocumentByPath returns the document referencing filePath, if any.
func (s *SQLiteStorage) GetDocumentByPath(ctx context.Context, filePath string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE file_path = ? LIMIT 1`, filePath)
	return scanDocument(row)
}

// ListDocuments returns all documents ordered by upload date descending.
func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY upload_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// ListPendingWork returns the worker's worklist: pending documents plus
// completed ones with empty extracted text, ascending id order.
func (s *SQLiteStorage) ListPendingWork(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE processing_status = ?
		    OR (processing_status = ? AND (extracted_text IS NULL OR TRIM(extracted_text) = ''))
		 ORDER BY id ASC`,
		string(models.StatusPending), string(models.StatusCompleted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// UpdateDocument applies a partial update and returns the updated document.
func (s *SQLiteStorage) UpdateDocument(ctx context.Context, id int64, update DocumentUpdate) (*models.Document, error) {
	var sets []string
	var args []any

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.ExtractedText != nil {
		sets = append(sets, "extracted_text = ?")
		args = append(args, *update.ExtractedText)
	}
	if update.StructuredText != nil {
		encoded, err := marshalStructured(update.StructuredText)
		if err != nil {
			return nil, err
		}
		sets = append(sets, "structured_text = ?")
		args = append(args, encoded)
	}
	if update.Categories != nil {
		encoded, err := json.Marshal(*update.Categories)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal categories: %w", err)
		}
		sets = append(sets, "categories = ?")
		args = append(args, string(encoded))
	}
	if update.Tags != nil {
		encoded, err := json.Marshal(*update.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(encoded))
	}
	if update.ProcessingStatus != nil {
		sets = append(sets, "processing_status = ?")
		args = append(args, string(*update.ProcessingStatus))
	}
	if update.ProcessedDate != nil {
		sets = append(sets, "processed_date = ?")
		args = append(args, *update.ProcessedDate)
	}

	if len(sets) == 0 {
		return s.GetDocument(ctx, id)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetDocument(ctx, id)
}

// DeleteDocument removes a document by id.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns document counts keyed by processing status.
func (s *SQLiteStorage) CountByStatus(ctx context.Context) (map[models.ProcessingStatus]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT processing_status, COUNT(*) FROM documents GROUP BY processing_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ProcessingStatus]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.ProcessingStatus(status)] = count
	}
	return counts, rows.Err()
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

// CreateCategory inserts a category and assigns its id.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, cat *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, color) VALUES (?, ?)`, cat.Name, cat.Color)
	if err != nil {
		return err
	}
	cat.ID, err = res.LastInsertId()
	return err
}

// UpdateCategory renames/recolors a category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id int64, name, color string) (*models.Category, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ? WHERE id = ?`, name, color, id)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}
	return &models.Category{ID: id, Name: name, Color: color}, nil
}

// DeleteCategory removes a category by id.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tests that need to seed raw rows.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

var _ Storage = (*SQLiteStorage)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument decodes one row. Categories, tags, and structured text are
// stored as JSON-encoded TEXT; rows that fail to decode fall back to empty
// slices / nil rather than surfacing an error, so the rest of the system
// never sees the encoded-string form.
func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var extractedText sql.NullString
	var structured sql.NullString
	var categories, tags string
	var status string
	var processedDate sql.NullTime

	err := row.Scan(&doc.ID, &doc.Title, &doc.OriginalName, &doc.FileType, &doc.FileSize,
		&doc.FilePath, &extractedText, &structured, &categories, &tags, &status,
		&doc.UploadDate, &processedDate)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if extractedText.Valid {
		doc.ExtractedText = &extractedText.String
	}
	doc.Categories = decodeStringList(categories)
	doc.Tags = decodeStringList(tags)
	doc.ProcessingStatus = models.ProcessingStatus(status)
	if processedDate.Valid {
		doc.ProcessedDate = &processedDate.Time
	}
	if structured.Valid && structured.String != "" {
		var st models.StructuredText
		if err := json.Unmarshal([]byte(structured.String), &st); err == nil {
			doc.StructuredText = &st
		}
	}
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]*models.Document, error) {
	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// decodeStringList decodes a JSON array column, returning an empty slice for
// malformed or empty values.
func decodeStringList(encoded string) []string {
	if encoded == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(encoded), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func marshalStructured(st *models.StructuredText) (any, error) {
	if st == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal structured text: %w", err)
	}
	return string(encoded), nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
