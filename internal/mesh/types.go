// Package mesh holds a half-edge representation of a closed triangle mesh.
//
// All entities live in per-type arenas owned by Mesh and refer to each other
// through integer handles. A Mesh is immutable once Build returns, so any
// number of goroutines may query it concurrently.
package mesh

import (
	"errors"

	"manifold-geodesic/internal/mathutil"
)

// Handles into the mesh arenas.
type (
	VertexID   int32
	EdgeID     int32
	HalfEdgeID int32
	FaceID     int32
)

// Sentinels for "no entity".
const (
	NoVertex   VertexID   = -1
	NoEdge     EdgeID     = -1
	NoHalfEdge HalfEdgeID = -1
	NoFace     FaceID     = -1
)

// Structural build failures. Build wraps these with triangle context.
var (
	ErrIndexOutOfRange     = errors.New("vertex index out of range")
	ErrDegenerateIndex     = errors.New("triangle repeats a vertex")
	ErrNonManifoldEdge     = errors.New("edge shared by more than two triangles")
	ErrInconsistentWinding = errors.New("adjacent triangles traverse a shared edge in the same direction")
	ErrBoundaryEdge        = errors.New("edge has a single incident triangle")
	ErrEmpty               = errors.New("no triangles")
)

type vertex struct {
	pos   mathutil.Vec3
	edges []EdgeID // incident edges; len is the vertex use count
}

type edge struct {
	origin, end VertexID
	halfEdges   []HalfEdgeID // at most two
}

// HalfEdge is one directed side of an edge, owned by a single face.
type HalfEdge struct {
	Face FaceID
	Edge EdgeID
	// Orient is true when the half-edge runs from the edge's origin to its end.
	Orient bool
	Next   HalfEdgeID
	Prev   HalfEdgeID
}

// Face is a triangle stored as its half-edge loop.
type Face struct {
	Loop [3]HalfEdgeID
}

// Mesh owns every vertex, edge, half-edge and face.
type Mesh struct {
	vertices  []vertex
	edges     []edge
	halfEdges []HalfEdge
	faces     []Face
}

func (m *Mesh) NumVertices() int  { return len(m.vertices) }
func (m *Mesh) NumEdges() int     { return len(m.edges) }
func (m *Mesh) NumHalfEdges() int { return len(m.halfEdges) }
func (m *Mesh) NumFaces() int     { return len(m.faces) }

// ValidFace reports whether f refers to a face of m.
func (m *Mesh) ValidFace(f FaceID) bool {
	return f >= 0 && int(f) < len(m.faces)
}
