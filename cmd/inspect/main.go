package main

import (
	"flag"
	"fmt"
	"os"

	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/meshio"
	"manifold-geodesic/internal/pick"
	"manifold-geodesic/internal/search"
)

func main() {
	trace := flag.String("trace", "", "Trace a search between two faces, given as src,dst")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: inspect [-trace F,G] <mesh.obj|mesh.stl|shape:name>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	m, data, err := meshio.LoadMesh(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range data.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	s := m.Stats()
	fmt.Printf("Mesh %q\n", data.Name)
	fmt.Printf("  Vertices: %d (isolated %d), Edges: %d, Half-edges: %d, Faces: %d\n",
		s.Vertices, s.Isolated, s.Edges, s.HalfEdges, s.Faces)
	fmt.Printf("  Euler characteristic: %d (genus %d)\n", s.Euler, (2-s.Euler)/2)
	fmt.Printf("  Area: %.4f\n", s.Area)
	fmt.Printf("  Edge length: min %.4f, mean %.4f, max %.4f\n", s.MinEdge, s.MeanEdge, s.MaxEdge)
	fmt.Printf("  BBox: X[%.3f, %.3f] Y[%.3f, %.3f] Z[%.3f, %.3f]\n",
		s.Min[0], s.Max[0], s.Min[1], s.Max[1], s.Min[2], s.Max[2])

	if err := m.Validate(); err != nil {
		fmt.Printf("  Validate: FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("  Validate: ok")

	if *trace == "" {
		return
	}
	var src, dst int
	if _, err := fmt.Sscanf(*trace, "%d,%d", &src, &dst); err != nil {
		fmt.Printf("Error: -trace %q: want two face indices like 3,17\n", *trace)
		os.Exit(2)
	}
	if !m.ValidFace(mesh.FaceID(src)) || !m.ValidFace(mesh.FaceID(dst)) {
		fmt.Printf("Error: faces must be in [0, %d)\n", m.NumFaces())
		os.Exit(1)
	}

	updates := make([]int, m.NumFaces())
	res, err := search.Search(m,
		pick.AtCentroid(m, mesh.FaceID(src)),
		pick.AtCentroid(m, mesh.FaceID(dst)),
		search.Options{OnUpdate: func(f, _ mesh.FaceID, _ float64) { updates[f]++ }})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	most, mostFace := 0, -1
	for f, n := range updates {
		if n > most {
			most, mostFace = n, f
		}
	}

	fmt.Printf("Search %d -> %d\n", src, dst)
	fmt.Printf("  Reachable: %v\n", res.Reachable)
	fmt.Printf("  Queue pops: %d, Label updates: %d (max %d at face %d)\n", res.Pops, res.Updates, most, mostFace)
	fmt.Printf("  Faces: %v\n", res.Faces)
	fmt.Printf("  Crossings: %d, Length: %.6f\n", len(res.Crossings), res.Length())
	for i, c := range res.Crossings {
		a, b := m.EdgeEnds(c.Edge)
		fmt.Printf("    [%d] edge %d (%d-%d) t=%.4f/%.4f\n", i, c.Edge, a, b, c.T, c.Length)
	}
}
