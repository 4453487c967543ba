package mesh

import (
	"fmt"
	"math"

	"manifold-geodesic/internal/mathutil"
)

// Validate re-checks the half-edge invariants: every edge has two
// oppositely oriented half-edges on different faces, every face loop is a
// 3-cycle with symmetric next/prev links, and every half-edge belongs to the
// face whose loop holds it.
func (m *Mesh) Validate() error {
	for e := range m.edges {
		hs := m.edges[e].halfEdges
		if len(hs) != 2 {
			return fmt.Errorf("mesh: edge %d has %d half-edges", e, len(hs))
		}
		a, b := m.halfEdges[hs[0]], m.halfEdges[hs[1]]
		if a.Edge != EdgeID(e) || b.Edge != EdgeID(e) {
			return fmt.Errorf("mesh: edge %d lists a foreign half-edge", e)
		}
		if a.Orient == b.Orient {
			return fmt.Errorf("mesh: edge %d: %w", e, ErrInconsistentWinding)
		}
		if a.Face == b.Face {
			return fmt.Errorf("mesh: edge %d has both sides on face %d", e, a.Face)
		}
	}

	for f := range m.faces {
		loop := m.faces[f].Loop
		for i, h := range loop {
			he := m.halfEdges[h]
			if he.Face != FaceID(f) {
				return fmt.Errorf("mesh: face %d slot %d owned by face %d", f, i, he.Face)
			}
			if he.Next != loop[(i+1)%3] {
				return fmt.Errorf("mesh: face %d slot %d: next is %d, want %d", f, i, he.Next, loop[(i+1)%3])
			}
			if m.halfEdges[he.Next].Prev != h {
				return fmt.Errorf("mesh: face %d slot %d: next/prev asymmetric", f, i)
			}
		}
		h := loop[0]
		steps := 0
		for {
			h = m.halfEdges[h].Next
			steps++
			if h == loop[0] || steps > 3 {
				break
			}
		}
		if steps != 3 {
			return fmt.Errorf("mesh: face %d loop length %d", f, steps)
		}
	}
	return nil
}

// Stats summarises a mesh.
type Stats struct {
	Vertices  int
	Edges     int
	HalfEdges int
	Faces     int
	Isolated  int // vertices with no incident edge
	Euler     int // V − E + F over referenced vertices
	Area      float64
	MinEdge   float64
	MaxEdge   float64
	MeanEdge  float64
	Min, Max  mathutil.Vec3
}

// Center returns the bounding box center.
func (s Stats) Center() mathutil.Vec3 {
	return s.Min.Mid(s.Max)
}

// Radius returns half the bounding box diagonal.
func (s Stats) Radius() float64 {
	return s.Max.Sub(s.Min).Len() / 2
}

func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices:  len(m.vertices),
		Edges:     len(m.edges),
		HalfEdges: len(m.halfEdges),
		Faces:     len(m.faces),
		MinEdge:   math.Inf(1),
		Min:       mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max:       mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}

	for _, v := range m.vertices {
		if len(v.edges) == 0 {
			s.Isolated++
			continue
		}
		s.Min = s.Min.Min(v.pos)
		s.Max = s.Max.Max(v.pos)
	}
	s.Euler = s.Vertices - s.Isolated - s.Edges + s.Faces

	var total float64
	for e := range m.edges {
		l := m.EdgeLength(EdgeID(e))
		total += l
		s.MinEdge = math.Min(s.MinEdge, l)
		s.MaxEdge = math.Max(s.MaxEdge, l)
	}
	if s.Edges > 0 {
		s.MeanEdge = total / float64(s.Edges)
	} else {
		s.MinEdge = 0
	}

	for f := range m.faces {
		s.Area += m.Area(FaceID(f))
	}
	return s
}
