package relax

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/search"
)

// vertical returns a crossing on the edge x = x0, y ∈ [-1, 1] at offset t.
func vertical(x0, t float64) search.Crossing {
	return search.Crossing{
		Origin: mathutil.Vec3{x0, -1, 0},
		Dir:    mathutil.Vec3{0, 1, 0},
		T:      t,
		Length: 2,
	}
}

func pathLength(src, dst mathutil.Vec3, cs []search.Crossing) float64 {
	return search.PolylineLength(search.Polyline(src, dst, cs))
}

func TestSingleCrossingConverges(t *testing.T) {
	src, dst := mathutil.Vec3{0, 0, 0}, mathutil.Vec3{2, 1, 0}
	cs := []search.Crossing{vertical(1, 1)}

	r := Relaxer{Iterations: 5000, Damping: 0.1, Epsilon: DefaultEpsilon, Workers: 1}
	r.Relax(src, dst, cs)

	// Brute-force the shortest route through the edge.
	best, bestT := math.Inf(1), 0.0
	for i := 0; i <= 200000; i++ {
		c := vertical(1, 2*float64(i)/200000)
		if l := pathLength(src, dst, []search.Crossing{c}); l < best {
			best, bestT = l, c.T
		}
	}

	assert.InDelta(t, 1.5, bestT, 1e-4)
	assert.InDelta(t, bestT, cs[0].T, 1e-3)
	assert.InDelta(t, best, pathLength(src, dst, cs), 1e-6)
}

func TestClampToEdge(t *testing.T) {
	// The straight line passes above the edge, so the crossing slides to its end.
	src, dst := mathutil.Vec3{0, 5, 0}, mathutil.Vec3{2, 5, 0}
	cs := []search.Crossing{vertical(1, 1)}

	Relaxer{Iterations: 1000, Damping: 0.1, Epsilon: DefaultEpsilon}.Relax(src, dst, cs)
	assert.Equal(t, 2.0, cs[0].T)

	src, dst = mathutil.Vec3{0, -5, 0}, mathutil.Vec3{2, -5, 0}
	Relaxer{Iterations: 1000, Damping: 0.1, Epsilon: DefaultEpsilon}.Relax(src, dst, cs)
	assert.Equal(t, 0.0, cs[0].T)
}

func TestStepDirection(t *testing.T) {
	r := Default()
	c := vertical(1, 0.5)
	p := c.Pos()

	// Both neighbours above the crossing pull it up the edge.
	up := r.step(c, p, mathutil.Vec3{0, 1, 0}, mathutil.Vec3{2, 1, 0})
	assert.Greater(t, up, 0.0)

	// Symmetric neighbours balance out.
	level := r.step(c, p, mathutil.Vec3{0, p[1], 0}, mathutil.Vec3{2, p[1], 0})
	assert.InDelta(t, 0, level, 1e-12)
}

func zigzag(n int) []search.Crossing {
	cs := make([]search.Crossing, n)
	for i := range cs {
		cs[i] = vertical(float64(i), float64(i*37%100)/50)
	}
	return cs
}

func TestParallelMatchesSerial(t *testing.T) {
	const n = 300
	src, dst := mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{n, 0, 0}

	serial := zigzag(n)
	Relaxer{Iterations: 25, Damping: 0.05, Epsilon: DefaultEpsilon, Workers: 1}.Relax(src, dst, serial)

	for _, w := range []int{2, 3, 4, 16} {
		par := zigzag(n)
		Relaxer{Iterations: 25, Damping: 0.05, Epsilon: DefaultEpsilon, Workers: w}.Relax(src, dst, par)
		require.Equal(t, serial, par, "workers=%d", w)
	}
}

func TestRelaxShortensAndStaysOnEdges(t *testing.T) {
	src, dst := mathutil.Vec3{-1, 0, 0}, mathutil.Vec3{40, 0, 0}
	cs := zigzag(40)
	before := pathLength(src, dst, cs)

	Relax(src, dst, cs)

	after := pathLength(src, dst, cs)
	assert.Less(t, after, before)
	for i, c := range cs {
		assert.GreaterOrEqual(t, c.T, 0.0, "crossing %d", i)
		assert.LessOrEqual(t, c.T, c.Length, "crossing %d", i)
		assert.Equal(t, vertical(float64(i), 0).Origin, c.Origin)
	}
}

func TestNoOp(t *testing.T) {
	src, dst := mathutil.Vec3{}, mathutil.Vec3{1, 0, 0}
	assert.NotPanics(t, func() { Relax(src, dst, nil) })

	cs := zigzag(5)
	want := zigzag(5)
	Relaxer{Iterations: 0, Damping: 1}.Relax(src, dst, cs)
	assert.Equal(t, want, cs)
}

func TestForEachChunkCovers(t *testing.T) {
	for _, tc := range []struct{ n, workers int }{{10, 4}, {128, 2}, {1000, 7}, {1000, 1}} {
		hits := make([]int, tc.n)
		Relaxer{Workers: tc.workers}.forEachChunk(tc.n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			assert.Equal(t, 1, h, "n=%d workers=%d index %d", tc.n, tc.workers, i)
		}
	}
}
