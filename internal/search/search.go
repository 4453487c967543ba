// Package search finds a chain of faces joining two surface points by a
// label-correcting search over the dual graph of a mesh, and turns the chain
// into the list of edge crossings the path passes through.
package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/gammazero/deque"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
)

// ErrInvalidFace is returned when an endpoint names a face the mesh lacks.
var ErrInvalidFace = errors.New("search: invalid face")

// Endpoint is a point on the surface together with the face containing it.
type Endpoint struct {
	Face  mesh.FaceID
	Point mathutil.Vec3
}

// Crossing is a point where the path crosses a mesh edge, expressed as the
// offset T along the edge from its canonical origin.
type Crossing struct {
	Edge   mesh.EdgeID
	Origin mathutil.Vec3
	Dir    mathutil.Vec3 // unit
	T      float64       // in [0, Length]
	Length float64
}

// Pos returns the 3D position of the crossing.
func (c Crossing) Pos() mathutil.Vec3 {
	return c.Origin.Add(c.Dir.Scale(c.T))
}

// Options tunes a search.
type Options struct {
	// OnUpdate, when set, is called for every accepted distance update.
	OnUpdate func(face, pred mesh.FaceID, dist float64)
}

// Result holds the per-search state. It is indexed by face handle and owned
// by the caller, which keeps the mesh free of search state.
type Result struct {
	Source, Target Endpoint
	Dist           []float64
	Pred           []mesh.FaceID
	// Faces is the face chain from source to target, both included.
	Faces []mesh.FaceID
	// Crossings are in source→target order, each at its edge midpoint.
	Crossings []Crossing
	Reachable bool
	// Pops counts queue pops; Updates counts accepted distance updates.
	Pops    int
	Updates int
}

// Search runs the face-graph search from src to dst on m.
//
// Every face starts at +Inf except the source face at 0. Faces are taken
// from a FIFO queue; crossing half-edge h from f into g costs
// |mid(h) − anchor(f)| + |centroid(g) − mid(h)|, where the anchor is the
// exact source or target point on their faces and the centroid elsewhere.
// A strictly smaller distance updates g and queues it again. The queue is
// drained completely.
//
// src and dst on the same face, or a target that cannot be reached, yield no
// crossings and no error.
func Search(m *mesh.Mesh, src, dst Endpoint, opts Options) (*Result, error) {
	if !m.ValidFace(src.Face) {
		return nil, fmt.Errorf("%w: source face %d", ErrInvalidFace, src.Face)
	}
	if !m.ValidFace(dst.Face) {
		return nil, fmt.Errorf("%w: target face %d", ErrInvalidFace, dst.Face)
	}

	n := m.NumFaces()
	r := &Result{
		Source: src,
		Target: dst,
		Dist:   make([]float64, n),
		Pred:   make([]mesh.FaceID, n),
	}
	for i := range r.Dist {
		r.Dist[i] = math.Inf(1)
		r.Pred[i] = mesh.NoFace
	}

	if src.Face == dst.Face {
		r.Dist[src.Face] = 0
		r.Faces = []mesh.FaceID{src.Face}
		r.Reachable = true
		return r, nil
	}

	r.relax(m, opts)
	r.reconstruct(m)
	return r, nil
}

func (r *Result) anchor(m *mesh.Mesh, f mesh.FaceID) mathutil.Vec3 {
	switch f {
	case r.Source.Face:
		return r.Source.Point
	case r.Target.Face:
		return r.Target.Point
	}
	return m.Centroid(f)
}

func (r *Result) relax(m *mesh.Mesh, opts Options) {
	// A face may be queued more than once; stale entries relax nothing.
	var q deque.Deque[mesh.FaceID]
	q.Grow(m.NumFaces())
	r.Dist[r.Source.Face] = 0
	q.PushBack(r.Source.Face)

	for q.Len() > 0 {
		f := q.PopFront()
		r.Pops++
		a := r.anchor(m, f)
		for _, h := range m.FaceHalfEdges(f) {
			g := m.AdjacentFace(h)
			if g == mesh.NoFace {
				continue
			}
			mid := m.EdgeMidpoint(m.HalfEdge(h).Edge)
			d := r.Dist[f] + mid.Dist(a) + m.Centroid(g).Dist(mid)
			if d < r.Dist[g] {
				r.Dist[g] = d
				r.Pred[g] = f
				r.Updates++
				if opts.OnUpdate != nil {
					opts.OnUpdate(g, f, d)
				}
				q.PushBack(g)
			}
		}
	}
}

// reconstruct walks predecessors back from the target. The walk is bounded
// by the face count.
func (r *Result) reconstruct(m *mesh.Mesh) {
	if math.IsInf(r.Dist[r.Target.Face], 1) {
		return
	}

	faces := []mesh.FaceID{r.Target.Face}
	var crossings []Crossing
	f := r.Target.Face
	for steps := 0; f != r.Source.Face; steps++ {
		pred := r.Pred[f]
		if pred == mesh.NoFace || steps >= m.NumFaces() {
			return
		}
		e := fromEdge(m, f, pred)
		if e == mesh.NoEdge {
			return
		}
		l := m.EdgeLength(e)
		crossings = append(crossings, Crossing{
			Edge:   e,
			Origin: m.EdgeOrigin(e),
			Dir:    m.EdgeDirection(e),
			T:      l / 2,
			Length: l,
		})
		faces = append(faces, pred)
		f = pred
	}

	reverse(faces)
	reverse(crossings)
	r.Faces = faces
	r.Crossings = crossings
	r.Reachable = true
}

// fromEdge returns the edge of f shared with pred.
func fromEdge(m *mesh.Mesh, f, pred mesh.FaceID) mesh.EdgeID {
	for _, h := range m.FaceHalfEdges(f) {
		if m.AdjacentFace(h) == pred {
			return m.HalfEdge(h).Edge
		}
	}
	return mesh.NoEdge
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Length returns the polyline length source → crossings → target with the
// crossings at their current offsets.
func (r *Result) Length() float64 {
	return PolylineLength(Polyline(r.Source.Point, r.Target.Point, r.Crossings))
}

// Polyline returns the ordered points src, crossing positions, dst.
func Polyline(src, dst mathutil.Vec3, cs []Crossing) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, 0, len(cs)+2)
	pts = append(pts, src)
	for _, c := range cs {
		pts = append(pts, c.Pos())
	}
	return append(pts, dst)
}

// PolylineLength sums the segment lengths of pts.
func PolylineLength(pts []mathutil.Vec3) float64 {
	var l float64
	for i := 1; i < len(pts); i++ {
		l += pts[i].Dist(pts[i-1])
	}
	return l
}
