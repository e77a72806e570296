package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docscan/docvault/internal/config"
)

type fakeRunner struct {
	stdout  string
	stderr  string
	err     error
	gotName string
	gotArgs []string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.gotName = name
	r.gotArgs = args
	return []byte(r.stdout), []byte(r.stderr), r.err
}

func newTestExtractor(runner Runner) *Extractor {
	e := NewExtractor(config.ExtractionConfig{}, nil)
	e.ocr.runner = runner
	return e
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := newTestExtractor(&fakeRunner{})
	_, err := e.Extract(context.Background(), "/tmp/file.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtract_ImageRoutesToOCR(t *testing.T) {
	runner := &fakeRunner{stdout: "recognized text"}
	e := newTestExtractor(runner)

	text, err := e.Extract(context.Background(), "/tmp/scan.png", "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if text != "recognized text" {
		t.Errorf("got %q", text)
	}
	if runner.gotName != "tesseract" {
		t.Errorf("expected tesseract binary, got %q", runner.gotName)
	}
	want := []string{"/tmp/scan.png", "stdout", "-l", "eng"}
	if strings.Join(runner.gotArgs, " ") != strings.Join(want, " ") {
		t.Errorf("args: %v", runner.gotArgs)
	}
}

func TestExtract_OCRFailureCarriesStderr(t *testing.T) {
	runner := &fakeRunner{stderr: "Error opening data file eng.traineddata", err: errors.New("exit status 1")}
	e := newTestExtractor(runner)

	_, err := e.Extract(context.Background(), "/tmp/scan.jpg", "image/jpeg")
	if err == nil {
		t.Fatal("expected error")
	}
	var engineErr *EngineError
	if !errors.As(err, &engineErr) || engineErr.Engine != "ocr" {
		t.Errorf("expected ocr engine error, got %v", err)
	}
	if !strings.Contains(err.Error(), "eng.traineddata") {
		t.Errorf("stderr not carried: %v", err)
	}
}

func TestExtract_MalformedPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	e := newTestExtractor(&fakeRunner{})
	_, err := e.Extract(context.Background(), path, "application/pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	var engineErr *EngineError
	if !errors.As(err, &engineErr) || engineErr.Engine != "pdf" {
		t.Errorf("expected pdf engine error, got %v", err)
	}
}

func TestExtract_MissingPDFFile(t *testing.T) {
	e := newTestExtractor(&fakeRunner{})
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"), "application/pdf")
	if err == nil {
		t.Fatal("expected error")
	}
	var engineErr *EngineError
	if !errors.As(err, &engineErr) || engineErr.Engine != "pdf" {
		t.Errorf("expected pdf engine error, got %v", err)
	}
}
