package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"manifold-geodesic/internal/geodesic"
	"manifold-geodesic/internal/imageout"
	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/query"
	"manifold-geodesic/internal/relax"
	"manifold-geodesic/internal/render"
)

// Config holds all shared resources for a batch run. The mesh is read-only
// and shared by every worker.
type Config struct {
	Mesh       *mesh.Mesh
	Relaxer    relax.Relaxer
	View       render.View
	Render     bool
	RenderOpts render.Options
	Format     imageout.Format
	OutputDir  string
	Workers    int
	Logger     *slog.Logger
	// Progress is the interval between progress log lines; 0 means 2s.
	Progress time.Duration
}

// Result holds the outcome of one query.
type Result struct {
	Name          string
	Success       bool
	Error         string
	Faces         int
	Crossings     int
	InitialLength float64
	Length        float64
	Direct        bool
	Points        []mathutil.Vec3
	Image         string // relative to OutputDir
}

// Run solves all queries using a worker pool. Results are in query order.
// Cancelling ctx stops handing out work; queries not started report the
// context error.
func Run(ctx context.Context, cfg Config, queries []query.Query) []Result {
	total := len(queries)
	results := make([]Result, total)
	var processed atomic.Int64

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}
	workers := max(cfg.Workers, 1)

	// Image files are named after queries, so a repeated name fails.
	dup := make([]bool, total)
	seen := make(map[string]bool, total)
	for i, q := range queries {
		if seen[q.Name] {
			dup[i] = true
			results[i] = Result{Name: q.Name, Error: fmt.Sprintf("%v: %q", query.ErrDuplicateName, q.Name)}
		}
		seen[q.Name] = true
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "rate", fmt.Sprintf("%.1f/s", rate))
				}
			}
		}
	}()

	// Worker pool
	queryChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queryChan {
				if !dup[idx] {
					results[idx] = processQuery(cfg, queries[idx])
				}
				if !results[idx].Success {
					log.Warn("query failed", "name", results[idx].Name, "err", results[idx].Error)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for ; sent < total; sent++ {
		select {
		case queryChan <- sent:
		case <-ctx.Done():
			break send
		}
	}
	close(queryChan)

	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		if !dup[i] {
			results[i] = Result{Name: queries[i].Name, Error: ctx.Err().Error()}
		}
	}

	return results
}

func processQuery(cfg Config, q query.Query) Result {
	res := Result{Name: q.Name}

	if err := q.Validate(); err != nil {
		res.Error = err.Error()
		return res
	}

	src, dst, err := q.Resolve(cfg.Mesh, cfg.View)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	path, err := geodesic.Solve(cfg.Mesh, src, dst, cfg.Relaxer)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Faces = len(path.Faces)
	res.Crossings = len(path.Crossings)
	res.InitialLength = path.InitialLength
	res.Length = path.Length
	res.Direct = path.Direct
	res.Points = path.Points

	if !path.Reachable {
		res.Error = "target face unreachable"
		return res
	}

	if cfg.Render {
		img := render.Render(cfg.Mesh, path.Points, cfg.View.Camera, cfg.RenderOpts)
		name := q.Name + cfg.Format.Ext()
		if err := imageout.Save(filepath.Join(cfg.OutputDir, name), img, cfg.Format); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Image = name
	}

	res.Success = true
	return res
}
