package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// Stroker draws anti-aliased polylines and dots over an image, ignoring
// depth, so a surface path stays visible through the mesh.
type Stroker struct {
	dst *image.NRGBA
	z   *vector.Rasterizer
}

func NewStroker(dst *image.NRGBA) *Stroker {
	b := dst.Bounds()
	return &Stroker{dst: dst, z: vector.NewRasterizer(b.Dx(), b.Dy())}
}

// Polyline strokes consecutive points with the given width in pixels and
// round joins.
func (s *Stroker) Polyline(pts [][2]float64, width float64, c color.NRGBA) {
	hw := width / 2
	for i := 1; i < len(pts); i++ {
		s.segment(pts[i-1], pts[i], hw, c)
	}
	for i := 1; i+1 < len(pts); i++ {
		s.Dot(pts[i], hw, c)
	}
}

func (s *Stroker) segment(a, b [2]float64, hw float64, c color.NRGBA) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		return
	}
	nx, ny := -dy/l*hw, dx/l*hw
	s.begin()
	s.z.MoveTo(float32(a[0]+nx), float32(a[1]+ny))
	s.z.LineTo(float32(b[0]+nx), float32(b[1]+ny))
	s.z.LineTo(float32(b[0]-nx), float32(b[1]-ny))
	s.z.LineTo(float32(a[0]-nx), float32(a[1]-ny))
	s.z.ClosePath()
	s.fill(c)
}

// Dot fills a circle of radius r around p.
func (s *Stroker) Dot(p [2]float64, r float64, c color.NRGBA) {
	const segs = 16
	s.begin()
	for i := 0; i <= segs; i++ {
		a := 2 * math.Pi * float64(i) / segs
		x, y := float32(p[0]+r*math.Cos(a)), float32(p[1]+r*math.Sin(a))
		if i == 0 {
			s.z.MoveTo(x, y)
		} else {
			s.z.LineTo(x, y)
		}
	}
	s.z.ClosePath()
	s.fill(c)
}

func (s *Stroker) begin() {
	b := s.dst.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
}

func (s *Stroker) fill(c color.NRGBA) {
	s.z.Draw(s.dst, s.dst.Bounds(), image.NewUniform(c), image.Point{})
}
