package mesh

import "manifold-geodesic/internal/mathutil"

// Position returns the position of vertex v.
func (m *Mesh) Position(v VertexID) mathutil.Vec3 {
	return m.vertices[v].pos
}

// VertexEdges returns the edges incident to v. The slice must not be modified.
func (m *Mesh) VertexEdges(v VertexID) []EdgeID {
	return m.vertices[v].edges
}

// FindEdge returns the edge joining a and b, scanning a's incident edges.
// orient is true when the edge is stored as a→b and false when stored as b→a.
// It returns NoEdge if the vertices are not adjacent.
func (m *Mesh) FindEdge(a, b VertexID) (e EdgeID, orient bool) {
	for _, ie := range m.vertices[a].edges {
		ed := &m.edges[ie]
		if ed.origin == a && ed.end == b {
			return ie, true
		}
		if ed.origin == b && ed.end == a {
			return ie, false
		}
	}
	return NoEdge, false
}

// EdgeEnds returns the canonical origin and end vertex of e.
func (m *Mesh) EdgeEnds(e EdgeID) (origin, end VertexID) {
	ed := &m.edges[e]
	return ed.origin, ed.end
}

// EdgeHalfEdges returns the half-edges bound to e. The slice must not be modified.
func (m *Mesh) EdgeHalfEdges(e EdgeID) []HalfEdgeID {
	return m.edges[e].halfEdges
}

// EdgeOrigin returns the position of e's canonical origin.
func (m *Mesh) EdgeOrigin(e EdgeID) mathutil.Vec3 {
	return m.vertices[m.edges[e].origin].pos
}

// EdgeVector returns end − origin.
func (m *Mesh) EdgeVector(e EdgeID) mathutil.Vec3 {
	ed := &m.edges[e]
	return m.vertices[ed.end].pos.Sub(m.vertices[ed.origin].pos)
}

func (m *Mesh) EdgeLength(e EdgeID) float64 {
	return m.EdgeVector(e).Len()
}

// EdgeDirection returns the unit vector from origin to end.
func (m *Mesh) EdgeDirection(e EdgeID) mathutil.Vec3 {
	return m.EdgeVector(e).Normalize()
}

func (m *Mesh) EdgeMidpoint(e EdgeID) mathutil.Vec3 {
	ed := &m.edges[e]
	return m.vertices[ed.origin].pos.Mid(m.vertices[ed.end].pos)
}

// HalfEdge returns a copy of half-edge h.
func (m *Mesh) HalfEdge(h HalfEdgeID) HalfEdge {
	return m.halfEdges[h]
}

// HalfEdgeOrigin returns the position where h starts, honoring its orientation.
func (m *Mesh) HalfEdgeOrigin(h HalfEdgeID) mathutil.Vec3 {
	he := &m.halfEdges[h]
	ed := &m.edges[he.Edge]
	if he.Orient {
		return m.vertices[ed.origin].pos
	}
	return m.vertices[ed.end].pos
}

// AdjacentFace returns the face on the other side of h, or NoFace if the edge
// has no second half-edge.
func (m *Mesh) AdjacentFace(h HalfEdgeID) FaceID {
	hs := m.edges[m.halfEdges[h].Edge].halfEdges
	for _, o := range hs {
		if o != h {
			return m.halfEdges[o].Face
		}
	}
	return NoFace
}

// FaceHalfEdges returns the half-edge loop of f.
func (m *Mesh) FaceHalfEdges(f FaceID) [3]HalfEdgeID {
	return m.faces[f].Loop
}

// FaceCorners returns the corner positions of f in loop order.
func (m *Mesh) FaceCorners(f FaceID) [3]mathutil.Vec3 {
	l := m.faces[f].Loop
	return [3]mathutil.Vec3{m.HalfEdgeOrigin(l[0]), m.HalfEdgeOrigin(l[1]), m.HalfEdgeOrigin(l[2])}
}

// FaceVertices returns the corner vertices of f in loop order.
func (m *Mesh) FaceVertices(f FaceID) [3]VertexID {
	var vs [3]VertexID
	for i, h := range m.faces[f].Loop {
		he := &m.halfEdges[h]
		ed := &m.edges[he.Edge]
		if he.Orient {
			vs[i] = ed.origin
		} else {
			vs[i] = ed.end
		}
	}
	return vs
}

func (m *Mesh) Centroid(f FaceID) mathutil.Vec3 {
	c := m.FaceCorners(f)
	return c[0].Add(c[1]).Add(c[2]).Scale(1.0 / 3)
}

// Normal returns the unit plane normal of f, or the zero vector for a
// degenerate triangle.
func (m *Mesh) Normal(f FaceID) mathutil.Vec3 {
	c := m.FaceCorners(f)
	return c[1].Sub(c[0]).Cross(c[2].Sub(c[0])).Normalize()
}

func (m *Mesh) Area(f FaceID) float64 {
	c := m.FaceCorners(f)
	return c[1].Sub(c[0]).Cross(c[2].Sub(c[0])).Len() / 2
}

// Triangles returns every face as a vertex index triple, in face order.
func (m *Mesh) Triangles() [][3]int {
	tris := make([][3]int, len(m.faces))
	for f := range m.faces {
		vs := m.FaceVertices(FaceID(f))
		tris[f] = [3]int{int(vs[0]), int(vs[1]), int(vs[2])}
	}
	return tris
}
