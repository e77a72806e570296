// Package ingest watches the uploads directory and registers dropped files
// as pending documents.
package ingest

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/docscan/docvault/internal/models"
	"github.com/docscan/docvault/internal/storage"
)

const defaultDebounce = 400 * time.Millisecond

// ingestExtensions are the file types routed to the extraction adapter.
var ingestExtensions = []string{".png", ".jpg", ".jpeg", ".pdf"}

// Watcher watches a single uploads directory and registers each matching
// file as a pending document. A notify callback wakes the processing
// worker after a registration.
type Watcher struct {
	root     string
	store    storage.Storage
	notify   func()
	debounce time.Duration
	logger   *zap.Logger

	watcher     *fsnotify.Watcher
	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	started     bool
	stopOnce    sync.Once
	done        chan struct{}
}

// NewWatcher creates a watcher over root. notify may be nil; logger may be nil.
func NewWatcher(root string, store storage.Storage, notify func(), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		root:        root,
		store:       store,
		notify:      notify,
		debounce:    defaultDebounce,
		logger:      logger,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
	}
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	if err := os.MkdirAll(w.root, 0755); err != nil {
		w.mu.Unlock()
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := watcher.Add(w.root); err != nil {
		_ = watcher.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	w.mu.Unlock()

	w.logger.Debug("ingest watcher starting", zap.String("root", w.root))
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("ingest watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev fsnotify.Event) {
	switch ev.Op {
	case fsnotify.Create, fsnotify.Write:
		if !matchExtension(ev.Name) {
			return
		}
		w.debounceRegister(ctx, ev.Name)
	case fsnotify.Remove:
		w.cancelDebounce(ev.Name)
	}
}

func matchExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ingestExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// debounceRegister delays registration so a file still being written settles
// before it is picked up.
func (w *Watcher) debounceRegister(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
	}
	t := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		w.mu.Unlock()
		w.register(ctx, path)
	})
	w.debounceMap[path] = t
}

func (w *Watcher) cancelDebounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
		delete(w.debounceMap, path)
	}
}

// register creates a pending document for path unless one already exists.
func (w *Watcher) register(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if existing, err := w.store.GetDocumentByPath(ctx, path); err == nil && existing != nil {
		w.logger.Debug("ingest skipping known file", zap.String("path", path))
		return
	}

	name := filepath.Base(path)
	doc := &models.Document{
		Title:        name,
		OriginalName: name,
		FileType:     mimeType(path),
		FileSize:     info.Size(),
		FilePath:     path,
	}
	if err := w.store.CreateDocument(ctx, doc); err != nil {
		w.logger.Error("ingest failed to register file", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Info("ingest registered file", zap.Int64("id", doc.ID), zap.String("path", path))

	if w.notify != nil {
		w.notify()
	}
}

func mimeType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// SyncExistingFiles registers files already present in the uploads directory
// when the watcher starts.
func (w *Watcher) SyncExistingFiles(ctx context.Context) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		w.logger.Debug("ingest sync failed", zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.root, entry.Name())
		if matchExtension(path) {
			w.register(ctx, path)
		}
	}
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.debounceMap {
		t.Stop()
		delete(w.debounceMap, path)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
