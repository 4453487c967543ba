package mesh

import (
	"fmt"

	"manifold-geodesic/internal/mathutil"
)

// Build creates a half-edge mesh from vertex positions and triangles given as
// vertex index triples. Every edge shared by two triangles is stored once and
// linked to both triangles' half-edges.
//
// Structural problems (bad indices, non-manifold or open edges, inconsistent
// winding) reject the whole input; no partial mesh is returned. Zero-area
// triangles are accepted.
func Build(positions []mathutil.Vec3, triangles [][3]int) (*Mesh, error) {
	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh: build: %w", ErrEmpty)
	}

	m := &Mesh{
		vertices:  make([]vertex, len(positions)),
		edges:     make([]edge, 0, len(triangles)*3/2),
		halfEdges: make([]HalfEdge, 0, len(triangles)*3),
		faces:     make([]Face, 0, len(triangles)),
	}
	for i, p := range positions {
		m.vertices[i].pos = p
	}

	for ti, tri := range triangles {
		for k, vi := range tri {
			if vi < 0 || vi >= len(positions) {
				return nil, fmt.Errorf("mesh: triangle %d corner %d (vertex %d): %w", ti, k, vi, ErrIndexOutOfRange)
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return nil, fmt.Errorf("mesh: triangle %d %v: %w", ti, tri, ErrDegenerateIndex)
		}

		f := FaceID(len(m.faces))
		m.faces = append(m.faces, Face{Loop: [3]HalfEdgeID{NoHalfEdge, NoHalfEdge, NoHalfEdge}})
		for k := 0; k < 3; k++ {
			a, b := VertexID(tri[k]), VertexID(tri[(k+1)%3])
			if err := m.addHalfEdge(f, k, a, b); err != nil {
				return nil, fmt.Errorf("mesh: triangle %d edge %d-%d: %w", ti, a, b, err)
			}
		}
	}

	for e := range m.edges {
		if len(m.edges[e].halfEdges) != 2 {
			ed := m.edges[e]
			return nil, fmt.Errorf("mesh: edge %d-%d: %w", ed.origin, ed.end, ErrBoundaryEdge)
		}
	}

	return m, nil
}

// addHalfEdge appends the half-edge a→b as slot k of face f, reusing the
// edge between a and b when one exists.
func (m *Mesh) addHalfEdge(f FaceID, k int, a, b VertexID) error {
	e, orient := m.FindEdge(a, b)
	if e == NoEdge {
		e = EdgeID(len(m.edges))
		m.edges = append(m.edges, edge{origin: a, end: b, halfEdges: make([]HalfEdgeID, 0, 2)})
		m.vertices[a].edges = append(m.vertices[a].edges, e)
		m.vertices[b].edges = append(m.vertices[b].edges, e)
		orient = true
	}

	ed := &m.edges[e]
	switch len(ed.halfEdges) {
	case 2:
		return ErrNonManifoldEdge
	case 1:
		if m.halfEdges[ed.halfEdges[0]].Orient == orient {
			return ErrInconsistentWinding
		}
	}

	h := HalfEdgeID(len(m.halfEdges))
	face := &m.faces[f]
	first, last := h, h
	if k > 0 {
		first, last = face.Loop[0], face.Loop[k-1]
	}
	m.halfEdges = append(m.halfEdges, HalfEdge{
		Face:   f,
		Edge:   e,
		Orient: orient,
		Next:   first,
		Prev:   last,
	})
	// Keep the loop closed after every insertion.
	m.halfEdges[last].Next = h
	m.halfEdges[first].Prev = h

	face.Loop[k] = h
	ed.halfEdges = append(ed.halfEdges, h)
	return nil
}
