// Package relax tightens a path of edge crossings into a locally shortest
// curve by sliding each crossing along its edge ("pulling the string taut").
package relax

import (
	"sync"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/search"
)

// Defaults used by the tools. There is no convergence test; Relax always runs
// Iterations sweeps.
const (
	DefaultIterations = 10
	DefaultDamping    = 0.01
	DefaultEpsilon    = 1e-3
)

// minChunk is the smallest number of crossings handed to one goroutine.
const minChunk = 64

// Relaxer holds the tunable constants of the relaxation.
type Relaxer struct {
	Iterations int
	// Damping scales each step before it is applied.
	Damping float64
	// Epsilon is added to neighbour distances before dividing by them.
	Epsilon float64
	// Workers > 1 computes the steps of one iteration in parallel.
	Workers int
}

// Default returns the standard settings: 10 iterations, damping 0.01,
// epsilon 1e-3, single worker.
func Default() Relaxer {
	return Relaxer{
		Iterations: DefaultIterations,
		Damping:    DefaultDamping,
		Epsilon:    DefaultEpsilon,
		Workers:    1,
	}
}

// Relax moves the crossings of the path src → cs → dst in place. Only T is
// modified; src and dst are fixed and every T stays within [0, Length].
//
// Each iteration first computes every step from the same snapshot of
// positions into a scratch buffer, then applies all of them, so the result
// does not depend on Workers.
func (r Relaxer) Relax(src, dst mathutil.Vec3, cs []search.Crossing) {
	if len(cs) == 0 {
		return
	}
	dt := make([]float64, len(cs))
	pos := make([]mathutil.Vec3, len(cs))

	for iter := 0; iter < r.Iterations; iter++ {
		for i := range cs {
			pos[i] = cs[i].Pos()
		}
		r.forEachChunk(len(cs), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				prev, next := src, dst
				if i > 0 {
					prev = pos[i-1]
				}
				if i < len(cs)-1 {
					next = pos[i+1]
				}
				dt[i] = r.step(cs[i], pos[i], prev, next)
			}
		})
		for i := range cs {
			c := &cs[i]
			c.T = mathutil.Clamp(c.T+dt[i]*r.Damping, 0, c.Length)
		}
	}
}

// step returns the slide of c toward its two neighbours: for each neighbour
// P_k, (Dir·P_k − B) / (|P − P_k| + ε) with B = T + Dir·Origin, i.e. the
// cosine between the edge and the direction to the neighbour. The sum is the
// negative derivative of the two adjacent segment lengths with respect to T.
func (r Relaxer) step(c search.Crossing, p, prev, next mathutil.Vec3) float64 {
	b := c.T + c.Dir.Dot(c.Origin)
	d0 := p.Dist(prev) + r.Epsilon
	d1 := p.Dist(next) + r.Epsilon
	return (c.Dir.Dot(prev)-b)/d0 + (c.Dir.Dot(next)-b)/d1
}

// forEachChunk splits [0, n) into contiguous ranges and runs fn on them,
// returning once all ranges are done.
func (r Relaxer) forEachChunk(n int, fn func(lo, hi int)) {
	workers := r.Workers
	if workers > n/minChunk {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	size := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}

// Relax runs the default relaxer.
func Relax(src, dst mathutil.Vec3, cs []search.Crossing) {
	Default().Relax(src, dst, cs)
}
