// Package main is the DocVault CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/docscan/docvault/internal/config"
	"github.com/docscan/docvault/internal/extract"
	"github.com/docscan/docvault/internal/ingest"
	"github.com/docscan/docvault/internal/models"
	"github.com/docscan/docvault/internal/server"
	"github.com/docscan/docvault/internal/storage"
	"github.com/docscan/docvault/internal/worker"
	"github.com/docscan/docvault/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/docvault/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "docvault server" from the project dir uses the
// project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "process":
		runProcess()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("docvault version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	extractor := extract.NewExtractor(cfg.Extraction, logger)
	interval := time.Duration(cfg.Worker.IntervalSeconds) * time.Second
	wrk := worker.New(store, storage.DiskFiles{}, extractor, interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := wrk.Start(ctx); err != nil {
		logger.Fatal("Failed to start worker", zap.Error(err))
	}

	var watch *ingest.Watcher
	if cfg.Worker.WatchUploads {
		watch = ingest.NewWatcher(cfg.Storage.UploadsDir, store, wrk.Kick, logger)
		if err := watch.Start(ctx); err != nil {
			logger.Fatal("Failed to start ingest watcher", zap.Error(err))
		}
		watch.SyncExistingFiles(ctx)
	}

	srv := server.NewServer(
		store,
		cfg.Storage.UploadsDir,
		cfg.Storage.DatabasePath,
		wrk.Kick,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watch != nil {
		watch.Stop()
	}
	wrk.Stop()
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

// runProcess runs a single processing pass over the worklist and exits.
func runProcess() {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	extractor := extract.NewExtractor(cfg.Extraction, logger)
	interval := time.Duration(cfg.Worker.IntervalSeconds) * time.Second
	wrk := worker.New(store, storage.DiskFiles{}, extractor, interval, logger)

	if err := wrk.RunTick(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Processing failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	counts, err := store.CountByStatus(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	fmt.Printf("documents:   %d\n", total)
	for _, status := range []string{"pending", "processing", "completed", "failed"} {
		fmt.Printf("%-12s %d\n", status+":", counts[models.ProcessingStatus(status)])
	}
	if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.UploadsDir); err == nil {
		fmt.Printf("disk_bytes:  %d\n", diskBytes)
	}
}

func printUsage() {
	fmt.Println(`docvault - Document storage and processing service

Usage:
  docvault server [flags]    Start the HTTP server and processing worker
  docvault process [flags]   Run one processing pass over pending documents
  docvault status [flags]    Show document counts by processing status
  docvault version           Show version
  docvault help              Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/docvault/config.yaml)
  --debug            Enable debug logging

Examples:
  docvault server
  docvault server --debug
  docvault process
  docvault status`)
}
