package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"manifold-geodesic/internal/geodesic"
	"manifold-geodesic/internal/imageout"
	"manifold-geodesic/internal/meshio"
	"manifold-geodesic/internal/query"
	"manifold-geodesic/internal/relax"
	"manifold-geodesic/internal/render"
)

func main() {
	meshPath := flag.String("mesh", "shape:icosphere:3", "Mesh file (.obj, .stl) or shape:<name>[:args]")
	srcFace := flag.Int("src-face", -1, "Source face index")
	dstFace := flag.Int("dst-face", -1, "Target face index")
	srcPoint := flag.String("src", "", "Source point x,y,z (or barycentric weights with -src-face)")
	dstPoint := flag.String("dst", "", "Target point x,y,z (or barycentric weights with -dst-face)")
	iterations := flag.Int("iter", relax.DefaultIterations, "Relaxation iterations")
	damping := flag.Float64("damping", relax.DefaultDamping, "Relaxation step scale")
	workers := flag.Int("workers", 1, "Goroutines per relaxation sweep")
	out := flag.String("render", "", "Write an image of the path (.webp, .tga or .png)")
	size := flag.Int("size", 512, "Image size in pixels")
	asJSON := flag.Bool("json", false, "Print the path as JSON")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	src, err := endpoint(*srcFace, *srcPoint)
	if err != nil {
		log.Error("source", "err", err)
		os.Exit(2)
	}
	dst, err := endpoint(*dstFace, *dstPoint)
	if err != nil {
		log.Error("target", "err", err)
		os.Exit(2)
	}

	m, data, err := meshio.LoadMesh(*meshPath)
	if err != nil {
		log.Error("loading mesh", "err", err)
		os.Exit(1)
	}
	for _, w := range data.Warnings {
		log.Warn("mesh", "msg", w)
	}

	q := query.Query{Name: "cli", Source: src, Target: dst}
	s, t, err := q.Resolve(m, nil)
	if err != nil {
		log.Error("resolving endpoints", "err", err)
		os.Exit(1)
	}

	r := relax.Relaxer{Iterations: *iterations, Damping: *damping, Epsilon: relax.DefaultEpsilon, Workers: *workers}
	path, err := geodesic.Solve(m, s, t, r)
	if err != nil {
		log.Error("solving", "err", err)
		os.Exit(1)
	}
	if !path.Reachable {
		log.Error("target face is not reachable from source face", "src", s.Face, "dst", t.Face)
		os.Exit(1)
	}

	if *asJSON {
		if err := writeJSON(os.Stdout, path); err != nil {
			log.Error("writing json", "err", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("Mesh: %s (%d faces)\n", data.Name, m.NumFaces())
		fmt.Printf("Source: face %d at %v\n", s.Face, s.Point)
		fmt.Printf("Target: face %d at %v\n", t.Face, t.Point)
		fmt.Printf("Faces: %d, Crossings: %d\n", len(path.Faces), len(path.Crossings))
		fmt.Printf("Length: %.6f (search %.6f)\n", path.Length, path.InitialLength)
	}

	if *out != "" {
		f, err := imageout.FormatFromPath(*out)
		if err != nil {
			log.Error("render", "err", err)
			os.Exit(1)
		}
		opts := render.DefaultOptions()
		opts.Width, opts.Height = *size, *size
		img := render.Render(m, path.Points, render.FitCamera(m.Stats()), opts)
		if err := imageout.Save(*out, img, f); err != nil {
			log.Error("render", "err", err)
			os.Exit(1)
		}
		log.Info("image written", "path", *out)
	}
}

// endpoint builds a query endpoint from a face index and an optional
// coordinate triple. With a face the triple is barycentric; without one it is
// a point on the surface.
func endpoint(face int, coords string) (query.Endpoint, error) {
	var e query.Endpoint
	var v []float64
	if coords != "" {
		var err error
		if v, err = parseVec(coords); err != nil {
			return e, err
		}
	}
	switch {
	case face >= 0:
		e.Face = &face
		e.Bary = v
	case v != nil:
		e.Point = v
	default:
		return e, fmt.Errorf("need a face index or a point")
	}
	return e, e.Validate()
}

func parseVec(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%q: want three comma-separated numbers", s)
	}
	v := make([]float64, 3)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}

// writeJSON prints the solved path as an indented JSON object.
func writeJSON(w io.Writer, path *geodesic.Path) error {
	pts := make([][3]float64, len(path.Points))
	for i, p := range path.Points {
		pts[i] = p
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"faces":          path.Faces,
		"crossings":      len(path.Crossings),
		"initial_length": path.InitialLength,
		"length":         path.Length,
		"points":         pts,
	})
}
