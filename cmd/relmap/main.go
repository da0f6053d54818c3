// Package main is the relmap CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/relmap/relmap/internal/cache"
	"github.com/relmap/relmap/internal/cli"
	"github.com/relmap/relmap/internal/config"
	"github.com/relmap/relmap/internal/layout"
	"github.com/relmap/relmap/internal/loader"
	"github.com/relmap/relmap/internal/models"
	"github.com/relmap/relmap/internal/projector"
	"github.com/relmap/relmap/internal/server"
	"github.com/relmap/relmap/internal/similarity"
	"github.com/relmap/relmap/internal/storage"
	"github.com/relmap/relmap/internal/timeline"
	"github.com/relmap/relmap/internal/watcher"
	"github.com/relmap/relmap/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/relmap/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so "relmap server" from the project dir picks up the project's
// config. Returns the config and the path that was actually loaded.
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

// loadConfigOrDefaults is loadConfig, but a missing default config file falls
// back to built-in defaults so the one-shot commands work without any setup.
func loadConfigOrDefaults(path string) *config.Config {
	cfg, _, err := loadConfig(path)
	if err == nil {
		return cfg
	}
	if path != defaultConfigPath {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
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
	case "graph":
		runGraph()
	case "timeline":
		runTimeline()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("relmap version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`relmap - relationship graph and timeline projections for search results

Usage:
  relmap server   [-config path] [-debug]        start the HTTP API server
  relmap graph    [flags] <records-file>          project one file to a graph
  relmap timeline [flags] <records-file>          project one file to a timeline
  relmap status   [-server url]                   show server status
  relmap version                                  print version

Graph flags:
  -dimension   category dimension (document_type, matter_type, file_type, organization)
  -min-score   display threshold, 0-100
  -anchor      record id pinned at the layout center
  -width, -height   canvas size (default 1000x600)
  -output      text, json, or svg

Timeline flags:
  -date-field  created, modified, or event
  -dimension   category dimension for point coloring
  -width, -height   plot size (default 1000x400)
  -output      text, json, or svg

Records files are JSON (array or {"records": [...]}) or XLSX.`)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (projection runs, dataset reloads, etc.)")
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

	store, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open dataset store", zap.Error(err))
	}
	defer store.Close()

	projCache := cache.New(cfg.Cache.Capacity, time.Duration(cfg.Cache.TTLSeconds)*time.Second, nil)
	srv := server.NewServer(store, cfg, projCache, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if len(cfg.Watch.Files) > 0 {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			cfg.Watch.Files,
			func(path string) {
				if err := srv.ReloadFile(context.Background(), path); err != nil {
					logger.Warn("watch reload failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				srv.RemoveFile(context.Background(), path)
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		// Load watched files once up front so datasets exist before the
		// first change event.
		for _, f := range cfg.Watch.Files {
			if err := srv.ReloadFile(context.Background(), f); err != nil {
				logger.Warn("initial dataset load failed", zap.String("path", f), zap.Error(err))
			}
		}
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runGraph() {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dimension := fs.String("dimension", "", "category dimension")
	minScore := fs.Float64("min-score", 0, "display threshold, 0-100")
	anchor := fs.String("anchor", "", "record id pinned at the layout center")
	width := fs.Float64("width", 1000, "canvas width")
	height := fs.Float64("height", 600, "canvas height")
	outputFormat := fs.String("output", "text", "output format: text, json, or svg")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: relmap graph [flags] <records-file>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := loadConfigOrDefaults(*configPath)
	records := loadRecords(fs.Arg(0))

	dim := *dimension
	if dim == "" {
		dim = cfg.Projection.Dimension
	}
	ms := *minScore
	if ms == 0 {
		ms = cfg.Projection.MinScore
	}
	graph := projector.Project(records, projector.Options{
		Dimension:     similarity.ParseDimension(dim),
		MinScore:      ms,
		MaxNodes:      cfg.Projection.MaxNodes,
		EdgeThreshold: cfg.Projection.EdgeThreshold,
		Similarity:    &cfg.Projection.Similarity,
	})

	opts := cfg.Layout
	opts.CenterX = *width / 2
	opts.CenterY = *height / 2
	opts.AnchorID = *anchor
	engine := layout.NewEngine(opts)
	engine.Reset(graph)
	ticks := engine.Settle(1000)

	resp := &models.GraphResponse{
		Points:  engine.Positions(),
		Edges:   graph.Edges,
		Settled: engine.State() != layout.StateSimulating,
		Ticks:   ticks,
	}
	if err := cli.WriteGraph(os.Stdout, resp, format, *width, *height); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runTimeline() {
	fs := flag.NewFlagSet("timeline", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dateField := fs.String("date-field", "", "date field: created, modified, or event")
	dimension := fs.String("dimension", "", "category dimension")
	width := fs.Float64("width", 0, "plot width")
	height := fs.Float64("height", 0, "plot height")
	outputFormat := fs.String("output", "text", "output format: text, json, or svg")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: relmap timeline [flags] <records-file>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := loadConfigOrDefaults(*configPath)
	records := loadRecords(fs.Arg(0))

	field := *dateField
	if field == "" {
		field = cfg.Timeline.DateField
	}
	dim := *dimension
	if dim == "" {
		dim = cfg.Projection.Dimension
	}
	w, h := *width, *height
	if w == 0 {
		w = cfg.Timeline.Width
	}
	if h == 0 {
		h = cfg.Timeline.Height
	}

	proj := timeline.Project(records, timeline.Options{
		DateField: models.ParseDateField(field),
		Dimension: similarity.ParseDimension(dim),
		Width:     w,
		Height:    h,
	})
	if err := cli.WriteTimeline(os.Stdout, proj, format, w, h); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func loadRecords(path string) []*models.ResultRecord {
	records, err := loader.NewLoader(zap.NewNop()).LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load records: %v\n", err)
		os.Exit(1)
	}
	return records
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}
	if *outputFormat == "json" {
		fmt.Println(string(body))
		return
	}
	var status struct {
		Datasets          int64  `json:"datasets"`
		Records           int64  `json:"records"`
		CachedProjections int    `json:"cached_projections"`
		DiskUsageBytes    *int64 `json:"disk_usage_bytes,omitempty"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		fmt.Fprintf(os.Stderr, "Decode response: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Datasets:           %d\n", status.Datasets)
	fmt.Printf("Records:            %d\n", status.Records)
	fmt.Printf("Cached projections: %d\n", status.CachedProjections)
	if status.DiskUsageBytes != nil {
		fmt.Printf("Disk usage:         %d bytes\n", *status.DiskUsageBytes)
	}
}
