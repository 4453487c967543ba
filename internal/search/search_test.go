package search

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/meshio"
)

func shape(t *testing.T, spec string) *mesh.Mesh {
	t.Helper()
	d, err := meshio.Shape(spec)
	require.NoError(t, err)
	m, err := d.Build()
	require.NoError(t, err)
	return m
}

func centroid(m *mesh.Mesh, f mesh.FaceID) Endpoint {
	return Endpoint{Face: f, Point: m.Centroid(f)}
}

func hasEdge(m *mesh.Mesh, f mesh.FaceID, e mesh.EdgeID) bool {
	for _, h := range m.FaceHalfEdges(f) {
		if m.HalfEdge(h).Edge == e {
			return true
		}
	}
	return false
}

func TestSameFace(t *testing.T) {
	m := shape(t, "octahedron")
	src := Endpoint{Face: 2, Point: m.Centroid(2)}
	c := m.FaceCorners(2)
	dst := Endpoint{Face: 2, Point: c[0].Lerp(c[1], 0.5)}

	res, err := Search(m, src, dst, Options{})
	require.NoError(t, err)
	assert.True(t, res.Reachable)
	assert.Equal(t, []mesh.FaceID{2}, res.Faces)
	assert.Empty(t, res.Crossings)
	assert.Equal(t, 0, res.Pops)
	assert.InDelta(t, src.Point.Dist(dst.Point), res.Length(), 1e-12)
}

func TestAdjacentFaces(t *testing.T) {
	m := shape(t, "octahedron")

	// Faces 0 {+x,+y,+z} and 1 {+y,−x,+z} share the edge +y/+z.
	res, err := Search(m, centroid(m, 0), centroid(m, 1), Options{})
	require.NoError(t, err)
	require.True(t, res.Reachable)
	assert.Equal(t, []mesh.FaceID{0, 1}, res.Faces)
	require.Len(t, res.Crossings, 1)

	e, _ := m.FindEdge(2, 4)
	c := res.Crossings[0]
	assert.Equal(t, e, c.Edge)
	assert.InDelta(t, c.Length/2, c.T, 1e-12)
	assert.InDelta(t, 0, c.Pos().Dist(m.EdgeMidpoint(e)), 1e-12)
}

func TestAntipodalFaces(t *testing.T) {
	m := shape(t, "octahedron")

	// The dual of the octahedron is a cube; opposite faces are three hops apart.
	res, err := Search(m, centroid(m, 0), centroid(m, 6), Options{})
	require.NoError(t, err)
	require.True(t, res.Reachable)
	require.Len(t, res.Faces, 4)
	require.Len(t, res.Crossings, 3)
	assert.Equal(t, mesh.FaceID(0), res.Faces[0])
	assert.Equal(t, mesh.FaceID(6), res.Faces[3])

	for k, c := range res.Crossings {
		assert.True(t, hasEdge(m, res.Faces[k], c.Edge), "crossing %d not on face %d", k, res.Faces[k])
		assert.True(t, hasEdge(m, res.Faces[k+1], c.Edge), "crossing %d not on face %d", k, res.Faces[k+1])
		assert.InDelta(t, math.Sqrt2, c.Length, 1e-12)
	}

	// Every face of a connected closed mesh gets a finite label.
	for f, d := range res.Dist {
		assert.False(t, math.IsInf(d, 1), "face %d", f)
	}
	assert.Equal(t, 0.0, res.Dist[0])
}

func TestPathFacesAreAdjacent(t *testing.T) {
	m := shape(t, "icosphere:2")
	last := mesh.FaceID(m.NumFaces() - 1)

	res, err := Search(m, centroid(m, 0), centroid(m, last), Options{})
	require.NoError(t, err)
	require.True(t, res.Reachable)
	require.Equal(t, len(res.Faces)-1, len(res.Crossings))

	seen := map[mesh.FaceID]bool{}
	for k := range res.Crossings {
		f, g := res.Faces[k], res.Faces[k+1]
		assert.False(t, seen[f], "face %d repeated", f)
		seen[f] = true
		assert.Equal(t, f, res.Pred[g])
	}
	assert.InDelta(t, res.Length(), PolylineLength(Polyline(res.Source.Point, res.Target.Point, res.Crossings)), 1e-12)
}

func TestUpdatesDecrease(t *testing.T) {
	m := shape(t, "torus:16:8")

	last := map[mesh.FaceID]float64{}
	calls := 0
	opts := Options{OnUpdate: func(f, pred mesh.FaceID, d float64) {
		calls++
		if prev, ok := last[f]; ok {
			assert.Less(t, d, prev, "face %d", f)
		}
		assert.NotEqual(t, f, pred)
		last[f] = d
	}}

	res, err := Search(m, centroid(m, 0), centroid(m, 77), opts)
	require.NoError(t, err)
	assert.True(t, res.Reachable)
	assert.Equal(t, res.Updates, calls)
	assert.GreaterOrEqual(t, res.Pops, m.NumFaces())
	// The source and every accepted update are queued once, and the queue drains.
	assert.Equal(t, res.Updates+1, res.Pops)

	for f, d := range last {
		assert.Equal(t, d, res.Dist[f])
	}
}

func TestUnreachable(t *testing.T) {
	a := meshio.Octahedron()
	pos := append([]mathutil.Vec3(nil), a.Positions...)
	tris := append([][3]int(nil), a.Triangles...)
	for _, p := range a.Positions {
		pos = append(pos, p.Add(mathutil.Vec3{5, 0, 0}))
	}
	for _, tri := range a.Triangles {
		tris = append(tris, [3]int{tri[0] + 6, tri[1] + 6, tri[2] + 6})
	}
	m, err := mesh.Build(pos, tris)
	require.NoError(t, err)

	res, err := Search(m, centroid(m, 0), centroid(m, 12), Options{})
	require.NoError(t, err)
	assert.False(t, res.Reachable)
	assert.Empty(t, res.Faces)
	assert.Empty(t, res.Crossings)
	assert.True(t, math.IsInf(res.Dist[12], 1))
}

func TestInvalidFace(t *testing.T) {
	m := shape(t, "octahedron")

	_, err := Search(m, Endpoint{Face: 8}, centroid(m, 0), Options{})
	assert.ErrorIs(t, err, ErrInvalidFace)

	_, err = Search(m, centroid(m, 0), Endpoint{Face: mesh.NoFace}, Options{})
	assert.ErrorIs(t, err, ErrInvalidFace)
}

func TestConcurrentSearches(t *testing.T) {
	m := shape(t, "icosphere:2")
	want, err := Search(m, centroid(m, 3), centroid(m, 200), Options{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = Search(m, centroid(m, 3), centroid(m, 200), Options{})
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, want.Faces, r.Faces)
		assert.Equal(t, want.Crossings, r.Crossings)
	}
}

func TestPolyline(t *testing.T) {
	cs := []Crossing{{Origin: mathutil.Vec3{1, 0, 0}, Dir: mathutil.Vec3{0, 1, 0}, T: 1, Length: 2}}
	pts := Polyline(mathutil.Vec3{}, mathutil.Vec3{2, 0, 0}, cs)
	assert.Equal(t, []mathutil.Vec3{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}}, pts)
	assert.InDelta(t, 2*math.Sqrt2, PolylineLength(pts), 1e-12)
}
