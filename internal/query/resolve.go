package query

import (
	"errors"
	"fmt"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/pick"
	"manifold-geodesic/internal/search"
)

// LocateTol is how far off the surface a {point} endpoint may lie.
const LocateTol = 1e-4

var (
	ErrMiss        = errors.New("query: endpoint does not hit the mesh")
	ErrNoViewport  = errors.New("query: pixel endpoint without a viewport")
	ErrFaceOutside = errors.New("query: point is not on the face")

	ErrBadName       = errors.New("query: invalid name")
	ErrDuplicateName = errors.New("query: duplicate name")
)

// Viewport turns pixel coordinates into pick rays.
type Viewport interface {
	PixelRay(x, y float64) pick.Ray
}

// Resolve turns the endpoint into a surface point on m. vp is only needed
// for pixel endpoints and may be nil otherwise.
func (e Endpoint) Resolve(m *mesh.Mesh, vp Viewport) (search.Endpoint, error) {
	if err := e.Validate(); err != nil {
		return search.Endpoint{}, fmt.Errorf("query: %w", err)
	}
	switch {
	case e.Face != nil:
		f := mesh.FaceID(*e.Face)
		if !m.ValidFace(f) {
			return search.Endpoint{}, fmt.Errorf("%w: face %d", search.ErrInvalidFace, *e.Face)
		}
		switch {
		case e.Bary != nil:
			return pick.AtBarycentric(m, f, [3]float64{e.Bary[0], e.Bary[1], e.Bary[2]}), nil
		case e.Point != nil:
			p := vec(e.Point)
			if !onFace(m, f, p) {
				return search.Endpoint{}, fmt.Errorf("%w: face %d point %v", ErrFaceOutside, f, p)
			}
			return search.Endpoint{Face: f, Point: p}, nil
		}
		return pick.AtCentroid(m, f), nil

	case e.Point != nil:
		p := vec(e.Point)
		hit, ok := pick.Locate(m, p, LocateTol)
		if !ok {
			return search.Endpoint{}, fmt.Errorf("%w: point %v", ErrMiss, p)
		}
		return hit, nil

	case e.Ray != nil:
		ray := pick.Ray{Origin: vec(e.Ray.Origin), Dir: vec(e.Ray.Dir)}
		hit, ok := pick.Cast(m, ray)
		if !ok {
			return search.Endpoint{}, fmt.Errorf("%w: ray %v → %v", ErrMiss, ray.Origin, ray.Dir)
		}
		return hit.Endpoint, nil

	case e.Pixel != nil:
		if vp == nil {
			return search.Endpoint{}, ErrNoViewport
		}
		hit, ok := pick.Cast(m, vp.PixelRay(e.Pixel[0], e.Pixel[1]))
		if !ok {
			return search.Endpoint{}, fmt.Errorf("%w: pixel %v", ErrMiss, e.Pixel)
		}
		return hit.Endpoint, nil
	}
	panic("unreachable")
}

// Resolve resolves both endpoints of q.
func (q Query) Resolve(m *mesh.Mesh, vp Viewport) (src, dst search.Endpoint, err error) {
	if src, err = q.Source.Resolve(m, vp); err != nil {
		return src, dst, fmt.Errorf("%s: source: %w", q.Name, err)
	}
	if dst, err = q.Target.Resolve(m, vp); err != nil {
		return src, dst, fmt.Errorf("%s: target: %w", q.Name, err)
	}
	return src, dst, nil
}

// onFace reports whether p lies within LocateTol of face f.
func onFace(m *mesh.Mesh, f mesh.FaceID, p mathutil.Vec3) bool {
	n := m.Normal(f)
	ray := pick.Ray{Origin: p.Add(n), Dir: n.Scale(-1)}
	q, ok := pick.IntersectFace(m, f, ray)
	return ok && q.Dist(p) <= LocateTol
}

func vec(v []float64) mathutil.Vec3 {
	return mathutil.Vec3{v[0], v[1], v[2]}
}
