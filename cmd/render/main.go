package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"manifold-geodesic/internal/batch"
	"manifold-geodesic/internal/config"
	"manifold-geodesic/internal/meshio"
	"manifold-geodesic/internal/query"
	"manifold-geodesic/internal/render"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a .json, .toml or .yaml config file")
	meshPath := flag.String("mesh", "", "Mesh file (.obj, .stl) or shape:<name>[:args]")
	queriesPath := flag.String("queries", "", "Query list (.json or .yaml)")
	outputDir := flag.String("output", "", "Output directory (default: geodesic-out)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	format := flag.String("format", "", "Image format: webp, tga or png (default: webp)")
	iterations := flag.Int("iter", 0, "Relaxation iterations (default: 10)")
	damping := flag.Float64("damping", 0, "Relaxation step scale (default: 0.01)")
	images := flag.Bool("images", false, "Render one image per query")
	testN := flag.Int("test", 0, "Run only the first N queries")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Error("loading config", "err", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		Mesh:       *meshPath,
		Queries:    *queriesPath,
		OutputDir:  *outputDir,
		Format:     *format,
		Iterations: *iterations,
		Damping:    *damping,
		Workers:    *workers,
		Render:     *images,
	})

	if cfg.Mesh == "" || cfg.Queries == "" {
		fmt.Fprintln(os.Stderr, "Error: -mesh and -queries are required (or set them in -config).")
		os.Exit(1)
	}

	imgFormat, err := cfg.ImageFormat()
	if err != nil {
		log.Error("bad format", "err", err)
		os.Exit(1)
	}

	m, data, err := meshio.LoadMesh(cfg.Mesh)
	if err != nil {
		log.Error("loading mesh", "err", err)
		os.Exit(1)
	}
	for _, w := range data.Warnings {
		log.Warn("mesh", "path", cfg.Mesh, "msg", w)
	}
	stats := m.Stats()
	log.Info("mesh loaded", "name", data.Name, "vertices", stats.Vertices, "faces", stats.Faces, "edges", stats.Edges)

	queries, err := query.Parse(cfg.Queries)
	if err != nil {
		log.Error("loading queries", "err", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(queries) {
		queries = queries[:*testN]
	}

	if len(queries) == 0 {
		fmt.Println("No queries to run.")
		os.Exit(0)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Error("creating output dir", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Geodesic batch: %d queries on %s\n", len(queries), data.Name)
	fmt.Printf("Workers: %d, Images: %v (%s)\n", cfg.Workers, cfg.Render, imgFormat)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	opts := cfg.RenderOptions()
	batchCfg := batch.Config{
		Mesh:       m,
		Relaxer:    cfg.Relaxer(),
		View:       render.View{Camera: cfg.Camera(render.FitCamera(stats)), Width: opts.Width, Height: opts.Height},
		Render:     cfg.Render,
		RenderOpts: opts,
		Format:     imgFormat,
		OutputDir:  cfg.OutputDir,
		Workers:    cfg.Workers,
		Logger:     log,
	}

	results := batch.Run(ctx, batchCfg, queries)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success := 0
	var failed []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed = append(failed, r)
		}
	}

	fmt.Printf("Solved: %d/%d\n", success, len(queries))

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		for _, e := range failed[:min(len(failed), 20)] {
			fmt.Printf("  %s: %s\n", e.Name, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		log.Warn("manifest write failed", "err", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
	}
}
