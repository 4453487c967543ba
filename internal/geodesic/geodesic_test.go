package geodesic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/meshio"
	"manifold-geodesic/internal/pick"
	"manifold-geodesic/internal/relax"
	"manifold-geodesic/internal/search"
)

func load(t *testing.T, spec string) *mesh.Mesh {
	t.Helper()
	m, _, err := meshio.LoadMesh("shape:" + spec)
	require.NoError(t, err)
	return m
}

func TestOppositeFaces(t *testing.T) {
	m := load(t, "octahedron")
	src, dst := pick.AtCentroid(m, 0), pick.AtCentroid(m, 6)

	p, err := Solve(m, src, dst, relax.Default())
	require.NoError(t, err)
	require.True(t, p.Reachable)
	assert.False(t, p.Direct)
	require.Len(t, p.Crossings, 3)
	require.Len(t, p.Points, 5)
	assert.Equal(t, src.Point, p.Points[0])
	assert.Equal(t, dst.Point, p.Points[4])

	assert.LessOrEqual(t, p.Length, p.InitialLength+1e-12)
	assert.Greater(t, p.Length, src.Point.Dist(dst.Point))
}

func TestSameFaceIsDirect(t *testing.T) {
	m := load(t, "cube:2")
	src := pick.AtBarycentric(m, 5, [3]float64{0.8, 0.1, 0.1})
	dst := pick.AtBarycentric(m, 5, [3]float64{0.1, 0.1, 0.8})

	p, err := Solve(m, src, dst, relax.Default())
	require.NoError(t, err)
	assert.True(t, p.Reachable)
	assert.True(t, p.Direct)
	assert.Equal(t, []mathutil.Vec3{src.Point, dst.Point}, p.Points)
	assert.InDelta(t, src.Point.Dist(dst.Point), p.Length, 1e-12)
	assert.Equal(t, p.InitialLength, p.Length)
}

func TestQuarterGreatCircle(t *testing.T) {
	m := load(t, "icosphere:3")

	top, ok := pick.Cast(m, pick.Ray{Origin: mathutil.Vec3{0.01, 0.02, 3}, Dir: mathutil.Vec3{0, 0, -1}})
	require.True(t, ok)
	side, ok := pick.Cast(m, pick.Ray{Origin: mathutil.Vec3{3, 0.02, 0.01}, Dir: mathutil.Vec3{-1, 0, 0}})
	require.True(t, ok)

	r := relax.Relaxer{Iterations: 2000, Damping: 0.05, Epsilon: relax.DefaultEpsilon, Workers: 2}
	p, err := Solve(m, top.Endpoint, side.Endpoint, r)
	require.NoError(t, err)
	require.True(t, p.Reachable)

	assert.Less(t, p.Length, p.InitialLength)
	assert.Greater(t, p.Length, top.Point.Dist(side.Point))
	assert.Less(t, p.Length, math.Pi/2*1.05)

	for _, c := range p.Crossings {
		assert.GreaterOrEqual(t, c.T, 0.0)
		assert.LessOrEqual(t, c.T, c.Length)
	}
}

func TestFromResultRelaxesInPlace(t *testing.T) {
	m := load(t, "torus:12:6")
	res, err := search.Search(m, pick.AtCentroid(m, 0), pick.AtCentroid(m, 70), search.Options{})
	require.NoError(t, err)
	before := res.Length()

	p := FromResult(res, relax.Default())
	assert.InDelta(t, before, p.InitialLength, 1e-12)
	assert.InDelta(t, res.Length(), p.Length, 1e-12)
	assert.Equal(t, len(res.Faces), len(p.Faces))
}

func TestSolveInvalidFace(t *testing.T) {
	m := load(t, "tetrahedron")
	_, err := Solve(m, search.Endpoint{Face: 4}, pick.AtCentroid(m, 0), relax.Default())
	assert.ErrorIs(t, err, search.ErrInvalidFace)
}
