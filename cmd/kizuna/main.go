// Package main is the Kizuna entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/kizuna/internal/batchio"
	"github.com/hyperjump/kizuna/internal/config"
	"github.com/hyperjump/kizuna/internal/graph"
	"github.com/hyperjump/kizuna/internal/pipeline"
	"github.com/hyperjump/kizuna/internal/report"
	"github.com/hyperjump/kizuna/internal/server"
	"github.com/hyperjump/kizuna/internal/storage"
	"github.com/hyperjump/kizuna/internal/watcher"
	"github.com/hyperjump/kizuna/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kizuna/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Missing files fall back to defaults so "kizuna build" works
// without any config.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				return config.Load(fallback)
			}
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			var cfg config.Config
			config.ApplyDefaults(&cfg)
			return &cfg, nil
		}
	}
	return config.Load(path)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "build":
		runBuild()
	case "export":
		runExport()
	case "version", "--version", "-v":
		fmt.Printf("kizuna version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, err := loadConfig(*configPath)
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

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	p := pipeline.New(cfg, store, pipeline.ScorerFromConfig(&cfg.Semantic), logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Directories) > 0 {
		w := watcher.New(cfg.Watch.Directories, func(path string) {
			docs, err := batchio.LoadFile(path)
			if err != nil {
				logger.Warn("batch file rejected", zap.String("path", path), zap.Error(err))
				return
			}
			if _, _, err := p.BuildBatch(context.Background(), docs); err != nil {
				logger.Warn("batch build failed", zap.String("path", path), zap.Error(err))
			}
		}, watcher.WithLogger(logger))
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(p, store, &cfg.Server, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}
}

func runBuild() {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	input := fs.String("input", "", "batch JSON file of extracted documents")
	output := fs.String("output", "", "write graph JSON to file (default stdout)")
	xlsx := fs.String("xlsx", "", "also write an xlsx report to this path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if *input == "" {
		fmt.Println("build requires -input")
		fs.Usage()
		os.Exit(1)
	}
	cfg, err := loadConfig(*configPath)
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

	docs, err := batchio.LoadFile(*input)
	if err != nil {
		logger.Fatal("Failed to load batch", zap.Error(err))
	}

	p := pipeline.New(cfg, nil, pipeline.ScorerFromConfig(&cfg.Semantic), logger)
	g, err := p.Build(context.Background(), docs)
	if err != nil {
		logger.Fatal("Failed to build graph", zap.Error(err))
	}
	export := g.Export("")

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode graph", zap.Error(err))
	}
	if *output == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(*output, data, 0644); err != nil {
		logger.Fatal("Failed to write output", zap.Error(err))
	}

	if *xlsx != "" {
		if err := report.WriteWorkbook(export, *xlsx); err != nil {
			logger.Fatal("Failed to write xlsx report", zap.Error(err))
		}
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	batchID := fs.String("batch", "", "stored batch id to export")
	xlsx := fs.String("xlsx", "", "xlsx report output path")
	_ = fs.Parse(os.Args[2:])

	if *batchID == "" || *xlsx == "" {
		fmt.Println("export requires -batch and -xlsx")
		fs.Usage()
		os.Exit(1)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	batch, err := store.GetBatch(context.Background(), *batchID)
	if err != nil {
		fmt.Printf("Failed to load batch: %v\n", err)
		os.Exit(1)
	}
	g, err := graph.FromBatch(batch)
	if err != nil {
		fmt.Printf("Failed to rebuild graph: %v\n", err)
		os.Exit(1)
	}
	if err := report.WriteWorkbook(g.Export(batch.ID), *xlsx); err != nil {
		fmt.Printf("Failed to write xlsx report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported batch %s to %s\n", batch.ID, *xlsx)
}

func printUsage() {
	fmt.Println(`kizuna - cross-document relationship graph engine

Usage:
  kizuna server [-config path] [-debug]          start the HTTP API server
  kizuna build -input batch.json [-output path] [-xlsx path]
                                                 build a graph from one batch
  kizuna export -batch id -xlsx path             export a stored batch as xlsx
  kizuna version                                 print version
  kizuna help                                    show this help`)
}
