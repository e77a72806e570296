// Package worker drives pending documents through extraction and structuring
// on a fixed polling interval, isolating per-record failures.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/docscan/docvault/internal/models"
	"github.com/docscan/docvault/internal/storage"
	"github.com/docscan/docvault/internal/textproc"
)

// fileMissingDiagnostic is stored in place of extracted text when the raw
// file cannot be found.
const fileMissingDiagnostic = "File not found on disk"

// Extractor is the text-extraction adapter contract the worker consumes.
type Extractor interface {
	Extract(ctx context.Context, path string, fileType string) (string, error)
}

// Worker polls the record store and processes documents needing work.
// Ticks run on a single goroutine, so they can never overlap; Kick requests
// an early tick without breaking that guarantee.
type Worker struct {
	store     storage.Storage
	files     storage.Files
	extractor Extractor
	interval  time.Duration
	logger    *zap.Logger

	kick     chan struct{}
	done     chan struct{}
	mu       sync.Mutex
	started  bool
	stopOnce sync.Once
}

// New creates a worker. logger may be nil.
func New(store storage.Storage, files storage.Files, extractor Extractor, interval time.Duration, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		store:     store,
		files:     files,
		extractor: extractor,
		interval:  interval,
		logger:    logger,
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Start launches the polling loop: one eager tick immediately, then one per
// interval, until ctx is cancelled or Stop is called.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	go w.run(ctx)
	return nil
}

// Kick requests an early tick. Non-blocking; redundant kicks coalesce.
func (w *Worker) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// Stop halts the polling loop. In-flight tick work finishes its current record.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *Worker) run(ctx context.Context) {
	if err := w.RunTick(ctx); err != nil {
		w.logger.Error("worker tick failed", zap.Error(err))
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-ticker.C:
		case <-w.kick:
		}
		if err := w.RunTick(ctx); err != nil {
			w.logger.Error("worker tick failed", zap.Error(err))
		}
	}
}

// RunTick scans the worklist and processes each record in ascending id
// order. A worklist scan failure aborts only this tick; a failure on one
// record never prevents the next from being attempted.
func (w *Worker) RunTick(ctx context.Context) error {
	docs, err := w.store.ListPendingWork(ctx)
	if err != nil {
		return fmt.Errorf("list pending work: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}
	w.logger.Info("processing documents", zap.Int("count", len(docs)))

	for _, doc := range docs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		default:
		}
		w.processDocument(ctx, doc)
	}
	return nil
}

// processDocument drives one record to completed or failed. All failure
// paths are absorbed here so the caller's loop keeps going.
func (w *Worker) processDocument(ctx context.Context, doc *models.Document) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic while processing document",
				zap.Int64("id", doc.ID), zap.Any("panic", r))
			w.markFailed(ctx, doc.ID, fmt.Sprintf("Processing failed: %v", r))
		}
	}()

	w.logger.Info("processing document", zap.Int64("id", doc.ID), zap.String("title", doc.Title))

	if err := w.setStatus(ctx, doc.ID, models.StatusProcessing); err != nil {
		w.logger.Error("failed to mark document processing", zap.Int64("id", doc.ID), zap.Error(err))
		return
	}

	if !w.files.Exists(doc.FilePath) {
		w.logger.Warn("file missing", zap.Int64("id", doc.ID), zap.String("path", doc.FilePath))
		w.markFailed(ctx, doc.ID, fileMissingDiagnostic)
		return
	}

	text, err := w.extractor.Extract(ctx, doc.FilePath, doc.FileType)
	if err != nil {
		w.logger.Error("extraction failed", zap.Int64("id", doc.ID), zap.Error(err))
		w.markFailed(ctx, doc.ID, err.Error())
		return
	}

	structured := textproc.Process(text)

	now := time.Now()
	status := models.StatusCompleted
	_, err = w.store.UpdateDocument(ctx, doc.ID, storage.DocumentUpdate{
		ExtractedText:    &text,
		StructuredText:   &structured,
		ProcessingStatus: &status,
		ProcessedDate:    &now,
	})
	if err != nil {
		w.logger.Error("failed to persist processing result", zap.Int64("id", doc.ID), zap.Error(err))
		w.markFailed(ctx, doc.ID, "Processing failed: "+err.Error())
		return
	}

	w.logger.Info("document processed",
		zap.Int64("id", doc.ID),
		zap.String("type", string(structured.DocumentType)),
		zap.Float64("confidence", structured.Confidence))
}

func (w *Worker) setStatus(ctx context.Context, id int64, status models.ProcessingStatus) error {
	_, err := w.store.UpdateDocument(ctx, id, storage.DocumentUpdate{ProcessingStatus: &status})
	return err
}

// markFailed records the failure reason in place of extracted text. Failed
// records stay failed until externally reset to pending.
func (w *Worker) markFailed(ctx context.Context, id int64, reason string) {
	status := models.StatusFailed
	_, err := w.store.UpdateDocument(ctx, id, storage.DocumentUpdate{
		ExtractedText:    &reason,
		ProcessingStatus: &status,
	})
	if err != nil {
		w.logger.Error("failed to mark document failed", zap.Int64("id", id), zap.Error(err))
	}
}
