package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: 0.0.0.0
  port: 9090
storage:
  database_path: ./data/test.db
  uploads_dir: /var/uploads
worker:
  interval_seconds: 5
  watch_uploads: true
extraction:
  tesseract_lang: deu
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug not set")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "data/test.db") {
		t.Errorf("./ path should resolve relative to config dir, got %s", cfg.Storage.DatabasePath)
	}
	if cfg.Storage.UploadsDir != "/var/uploads" {
		t.Errorf("absolute path should stay untouched, got %s", cfg.Storage.UploadsDir)
	}
	if cfg.Worker.IntervalSeconds != 5 || !cfg.Worker.WatchUploads {
		t.Errorf("worker config: %+v", cfg.Worker)
	}
	if cfg.Extraction.TesseractLang != "deu" {
		t.Errorf("extraction config: %+v", cfg.Extraction)
	}
	// Defaults fill what the file omits.
	if cfg.Extraction.TesseractPath != "tesseract" {
		t.Errorf("expected default tesseract path, got %s", cfg.Extraction.TesseractPath)
	}
	if cfg.Extraction.TimeoutSeconds == 0 {
		t.Error("expected default extraction timeout")
	}
}

func TestLoad_EmptyFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host == "" || cfg.Server.Port == 0 {
		t.Errorf("server defaults missing: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" || cfg.Storage.UploadsDir == "" {
		t.Errorf("storage defaults missing: %+v", cfg.Storage)
	}
	if cfg.Worker.IntervalSeconds == 0 {
		t.Error("worker interval default missing")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
