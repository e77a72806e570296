// Package extract pulls plain text out of uploaded files. It is polymorphic
// over the file's media category: images go through the OCR engine, PDFs
// through page-by-page text extraction, and anything else fails with
// ErrUnsupportedType.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docscan/docvault/internal/config"
)

// ErrUnsupportedType indicates a file type the adapter cannot extract.
var ErrUnsupportedType = errors.New("unsupported file type")

// EngineError wraps a failure inside an extraction engine (OCR or PDF parse).
// The engine's message is preserved for the failure diagnostic.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return e.Engine + " extraction failed: " + e.Err.Error()
}

func (e *EngineError) Unwrap() error { return e.Err }

// Extractor selects an extraction strategy from the document's mime type.
type Extractor struct {
	ocr     *OCREngine
	timeout time.Duration
	logger  *zap.Logger
}

// NewExtractor builds an extractor from config. logger may be nil.
func NewExtractor(cfg config.ExtractionConfig, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		ocr:     NewOCREngine(cfg.TesseractPath, cfg.TesseractLang, logger),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logger,
	}
}

// Extract returns the plain text of the file at path.
// fileType is the stored mime string; image/* routes to OCR, */pdf to the
// PDF parser, anything else to ErrUnsupportedType. Engine calls run under a
// timeout so a hung engine surfaces as an error instead of stalling a tick.
func (e *Extractor) Extract(ctx context.Context, path string, fileType string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	mime := strings.ToLower(fileType)
	switch {
	case strings.Contains(mime, "image"):
		text, err := e.ocr.Recognize(ctx, path)
		if err != nil {
			return "", &EngineError{Engine: "ocr", Err: err}
		}
		return text, nil
	case strings.Contains(mime, "pdf"):
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &EngineError{Engine: "pdf", Err: err}
		}
		text, err := extractPDF(data)
		if err != nil {
			return "", &EngineError{Engine: "pdf", Err: err}
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
}
