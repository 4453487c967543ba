// Package pick finds surface points on a mesh: ray casts for interactive
// picks and deterministic constructors for scripted queries.
package pick

import (
	"math"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/search"
)

const (
	// DegenerateEdge2 is the squared edge length below which a triangle is
	// considered degenerate and never hit.
	DegenerateEdge2 = 1e-6
	// ContainTol bounds the relative area mismatch of the containment test.
	ContainTol = 1e-3
)

// Ray is a half-line from Origin along Dir. Dir need not be unit length.
type Ray struct {
	Origin mathutil.Vec3
	Dir    mathutil.Vec3
}

// Hit is a ray/surface intersection.
type Hit struct {
	search.Endpoint
	// Dist2 is the squared distance from the ray origin.
	Dist2 float64
}

// IntersectFace intersects ray with the plane of face f and reports whether
// the hit lies inside the triangle. Degenerate triangles never report a hit.
func IntersectFace(m *mesh.Mesh, f mesh.FaceID, ray Ray) (mathutil.Vec3, bool) {
	c := m.FaceCorners(f)
	p0, p1, p2 := c[0], c[1], c[2]
	if p0.Dist2(p1) < DegenerateEdge2 || p1.Dist2(p2) < DegenerateEdge2 || p2.Dist2(p0) < DegenerateEdge2 {
		return mathutil.Vec3{}, false
	}

	cross := p1.Sub(p0).Cross(p2.Sub(p0))
	area := cross.Len()
	if area < DegenerateEdge2 {
		return mathutil.Vec3{}, false
	}
	norm := cross.Scale(1 / area)

	denom := ray.Dir.Dot(norm)
	if math.Abs(denom) < 1e-12 {
		return mathutil.Vec3{}, false
	}
	s := -ray.Origin.Sub(p0).Dot(norm) / denom
	if s < 0 {
		return mathutil.Vec3{}, false
	}
	proj := ray.Origin.Add(ray.Dir.Scale(s))
	return proj, contains(p0, p1, p2, area, proj)
}

// contains compares the areas of the three sub-triangles around p with the
// triangle area; they only sum to it when p is inside.
func contains(p0, p1, p2 mathutil.Vec3, area float64, p mathutil.Vec3) bool {
	sum := p.Sub(p0).Cross(p.Sub(p1)).Len() +
		p.Sub(p1).Cross(p.Sub(p2)).Len() +
		p.Sub(p2).Cross(p.Sub(p0)).Len()
	return math.Abs(sum/area-1) < ContainTol
}

// Cast returns the hit nearest to the ray origin over all faces.
func Cast(m *mesh.Mesh, ray Ray) (Hit, bool) {
	best := Hit{Endpoint: search.Endpoint{Face: mesh.NoFace}, Dist2: math.Inf(1)}
	for f := 0; f < m.NumFaces(); f++ {
		p, ok := IntersectFace(m, mesh.FaceID(f), ray)
		if !ok {
			continue
		}
		if d2 := p.Dist2(ray.Origin); d2 < best.Dist2 {
			best = Hit{Endpoint: search.Endpoint{Face: mesh.FaceID(f), Point: p}, Dist2: d2}
		}
	}
	return best, best.Face != mesh.NoFace
}

// AtCentroid returns the endpoint at the centroid of f.
func AtCentroid(m *mesh.Mesh, f mesh.FaceID) search.Endpoint {
	return search.Endpoint{Face: f, Point: m.Centroid(f)}
}

// AtBarycentric returns the point of f with the given barycentric weights,
// applied to the corners in loop order. Weights are normalised to sum to 1.
func AtBarycentric(m *mesh.Mesh, f mesh.FaceID, w [3]float64) search.Endpoint {
	c := m.FaceCorners(f)
	sum := w[0] + w[1] + w[2]
	if sum == 0 {
		return AtCentroid(m, f)
	}
	p := c[0].Scale(w[0] / sum).Add(c[1].Scale(w[1] / sum)).Add(c[2].Scale(w[2] / sum))
	return search.Endpoint{Face: f, Point: p}
}

// Locate finds the face containing p, which must lie within tol of the
// surface. The face with the smallest plane distance wins.
func Locate(m *mesh.Mesh, p mathutil.Vec3, tol float64) (search.Endpoint, bool) {
	best := search.Endpoint{Face: mesh.NoFace}
	bestDist := math.Inf(1)
	for f := 0; f < m.NumFaces(); f++ {
		c := m.FaceCorners(mesh.FaceID(f))
		cross := c[1].Sub(c[0]).Cross(c[2].Sub(c[0]))
		area := cross.Len()
		if area < DegenerateEdge2 {
			continue
		}
		dist := math.Abs(p.Sub(c[0]).Dot(cross.Scale(1 / area)))
		if dist > tol || dist >= bestDist {
			continue
		}
		if contains(c[0], c[1], c[2], area, p) {
			best = search.Endpoint{Face: mesh.FaceID(f), Point: p}
			bestDist = dist
		}
	}
	return best, best.Face != mesh.NoFace
}
