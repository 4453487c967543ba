package render

import (
	"math"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/pick"
)

// DefaultFOV is the vertical field of view in radians.
const DefaultFOV = 1.4

const nearPlane = 1e-4

// Camera orbits Target in a Z-up world. Phi is the azimuth around Z and
// Theta the elevation above the XY plane, both in radians; Zoom is the
// distance to the target.
type Camera struct {
	Target mathutil.Vec3
	Phi    float64
	Theta  float64
	Zoom   float64
	FOV    float64
}

// FitCamera frames the bounding sphere of a mesh from a default angle.
func FitCamera(s mesh.Stats) Camera {
	c := Camera{
		Target: s.Center(),
		Phi:    0.6,
		Theta:  0.45,
		FOV:    DefaultFOV,
	}
	c.Zoom = c.FitDistance(s.Radius())
	return c
}

// FitDistance is the zoom at which a sphere of the given radius around the
// target fills the view with a small margin.
func (c Camera) FitDistance(radius float64) float64 {
	if radius < 1e-9 {
		radius = 1
	}
	fov := c.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	return radius / math.Sin(fov/2) * 1.1
}

// Position returns the eye position.
func (c Camera) Position() mathutil.Vec3 {
	return c.Target.Add(mathutil.Spherical(c.Phi, c.Theta).Scale(c.Zoom))
}

// Basis returns the view rotation whose rows are the screen right, screen
// down and viewing directions. Screen down matches image Y.
func (c Camera) Basis() mathutil.Mat3 {
	look := mathutil.Spherical(c.Phi, c.Theta).Scale(-1)
	right := look.Cross(mathutil.Vec3{0, 0, 1}).Normalize()
	if right.Len2() == 0 {
		// Looking straight along Z.
		right = mathutil.Vec3{-math.Sin(c.Phi), math.Cos(c.Phi), 0}
	}
	down := look.Cross(right)
	return mathutil.Mat3Rows(right, down, look)
}

func (c Camera) focal() float64 {
	fov := c.FOV
	if fov <= 0 {
		fov = DefaultFOV
	}
	return 1 / math.Tan(fov/2)
}

// Project maps p to pixel coordinates of a w×h image. depth is the distance
// along the view axis; ok is false for points behind the eye.
func (c Camera) Project(p mathutil.Vec3, w, h int) (x, y, depth float64, ok bool) {
	v := c.Basis().MulVec3(p.Sub(c.Position()))
	if v[2] <= nearPlane {
		return 0, 0, v[2], false
	}
	s := c.focal() / v[2] * float64(h) / 2
	return float64(w)/2 + v[0]*s, float64(h)/2 + v[1]*s, v[2], true
}

// Ray returns the pick ray through pixel (px, py) of a w×h image.
func (c Camera) Ray(px, py float64, w, h int) pick.Ray {
	half := float64(h) / 2
	u := (px - float64(w)/2) / half
	v := (py - half) / half
	local := mathutil.Vec3{u, v, c.focal()}
	dir := c.Basis().Transpose().MulVec3(local).Normalize()
	return pick.Ray{Origin: c.Position(), Dir: dir}
}

// View is a camera bound to an image size.
type View struct {
	Camera
	Width, Height int
}

// PixelRay returns the pick ray through pixel (x, y) of the view.
func (v View) PixelRay(x, y float64) pick.Ray {
	return v.Ray(x, y, v.Width, v.Height)
}
