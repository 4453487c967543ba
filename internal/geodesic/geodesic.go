// Package geodesic chains the face search and the string relaxation into a
// single call producing the final surface polyline.
package geodesic

import (
	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/relax"
	"manifold-geodesic/internal/search"
)

// Path is an approximate geodesic between two surface points.
type Path struct {
	Source, Target search.Endpoint
	Faces          []mesh.FaceID
	Crossings      []search.Crossing
	// Points is source, relaxed crossing positions, target.
	Points []mathutil.Vec3
	// InitialLength is the length with every crossing at its edge midpoint.
	InitialLength float64
	Length        float64
	// Direct is set when no crossings exist and Points is the straight
	// segment between the endpoints (same face or unreachable target).
	Direct    bool
	Reachable bool
}

// Solve searches a face chain from src to dst and relaxes its crossings
// with r.
func Solve(m *mesh.Mesh, src, dst search.Endpoint, r relax.Relaxer) (*Path, error) {
	res, err := search.Search(m, src, dst, search.Options{})
	if err != nil {
		return nil, err
	}
	return FromResult(res, r), nil
}

// FromResult relaxes the crossings of a finished search. The result's
// crossings are modified in place.
func FromResult(res *search.Result, r relax.Relaxer) *Path {
	p := &Path{
		Source:    res.Source,
		Target:    res.Target,
		Faces:     res.Faces,
		Crossings: res.Crossings,
		Reachable: res.Reachable,
	}
	src, dst := res.Source.Point, res.Target.Point

	if len(p.Crossings) == 0 {
		p.Direct = true
		p.Points = []mathutil.Vec3{src, dst}
		p.InitialLength = src.Dist(dst)
		p.Length = p.InitialLength
		return p
	}

	p.InitialLength = res.Length()
	r.Relax(src, dst, p.Crossings)
	p.Points = search.Polyline(src, dst, p.Crossings)
	p.Length = search.PolylineLength(p.Points)
	return p
}
