package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docscan/docvault/internal/models"
	"github.com/docscan/docvault/internal/storage"
)

func newTestStore(t *testing.T) storage.Storage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func waitForDocument(t *testing.T, store storage.Storage, path string, timeout time.Duration) *models.Document {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		doc, err := store.GetDocumentByPath(context.Background(), path)
		if err == nil {
			return doc
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("document for %s never registered", path)
	return nil
}

func TestWatcher_RegistersDroppedFile(t *testing.T) {
	store := newTestStore(t)
	root := t.TempDir()
	notified := make(chan struct{}, 8)

	w := NewWatcher(root, store, func() { notified <- struct{}{} }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(root, "dropped.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644); err != nil {
		t.Fatal(err)
	}

	doc := waitForDocument(t, store, path, 3*time.Second)
	if doc.ProcessingStatus != models.StatusPending {
		t.Errorf("expected pending, got %s", doc.ProcessingStatus)
	}
	if doc.FileType != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", doc.FileType)
	}
	if doc.OriginalName != "dropped.pdf" {
		t.Errorf("got %s", doc.OriginalName)
	}

	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Error("registration should notify the worker")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	store := newTestStore(t)
	root := t.TempDir()

	w := NewWatcher(root, store, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	pdfPath := filepath.Join(root, "keep.pdf")
	txtPath := filepath.Join(root, "skip.txt")
	if err := os.WriteFile(txtPath, []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pdfPath, []byte("%PDF"), 0644); err != nil {
		t.Fatal(err)
	}

	// The pdf registering proves events flowed; the txt must still be absent.
	waitForDocument(t, store, pdfPath, 3*time.Second)
	if _, err := store.GetDocumentByPath(context.Background(), txtPath); err == nil {
		t.Error("non-ingest extension should not be registered")
	}
}

func TestWatcher_DoesNotDuplicateKnownFiles(t *testing.T) {
	store := newTestStore(t)
	root := t.TempDir()

	w := NewWatcher(root, store, nil, nil)
	path := filepath.Join(root, "seed.png")
	if err := os.WriteFile(path, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	w.SyncExistingFiles(ctx)
	w.SyncExistingFiles(ctx)

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
	if docs[0].FileType != "image/png" {
		t.Errorf("got %s", docs[0].FileType)
	}
}
