// Package render draws a mesh and a surface path to an image with a small
// software rasterizer: flat-shaded z-buffered triangles, an optional
// wireframe and an anti-aliased path overlay.
package render

import (
	"image"
	"image/color"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
)

// Options controls image size and colors.
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size and filters
	// the result down.
	Supersample int
	Wireframe   bool
	// LineWidth is the path width in output pixels.
	LineWidth  float64
	Background color.NRGBA
	Surface    color.NRGBA
	Wire       color.NRGBA
	Path       color.NRGBA
	Source     color.NRGBA
	Target     color.NRGBA
}

// DefaultOptions renders 512×512 at 2× supersampling with a wireframe and a
// red path, on the gray background of the interactive viewer.
func DefaultOptions() Options {
	return Options{
		Width:       512,
		Height:      512,
		Supersample: 2,
		Wireframe:   true,
		LineWidth:   2.5,
		Background:  color.NRGBA{128, 128, 128, 255},
		Surface:     color.NRGBA{235, 235, 235, 255},
		Wire:        color.NRGBA{20, 20, 20, 255},
		Path:        color.NRGBA{230, 30, 30, 255},
		Source:      color.NRGBA{30, 90, 230, 255},
		Target:      color.NRGBA{20, 170, 60, 255},
	}
}

// Render draws m seen from cam, then the polyline path (may be empty) on
// top. The first and last path points are marked with dots.
func Render(m *mesh.Mesh, path []mathutil.Vec3, cam Camera, opts Options) *image.NRGBA {
	ss := max(opts.Supersample, 1)
	w, h := opts.Width*ss, opts.Height*ss

	fb := NewFrameBuffer(w, h, opts.Background)
	light := DefaultLight()
	basis := cam.Basis()

	// Project every vertex once.
	verts := make([]ScreenVert, m.NumVertices())
	visible := make([]bool, m.NumVertices())
	for i := range verts {
		x, y, depth, ok := cam.Project(m.Position(mesh.VertexID(i)), w, h)
		if ok {
			verts[i] = ScreenVert{X: x, Y: y, InvZ: 1 / depth}
			visible[i] = true
		}
	}

	wire := 0.0
	if opts.Wireframe {
		wire = 0.6 * float64(ss)
	}

	for f := 0; f < m.NumFaces(); f++ {
		vs := m.FaceVertices(mesh.FaceID(f))
		if !visible[vs[0]] || !visible[vs[1]] || !visible[vs[2]] {
			continue
		}
		// Eye space of the lighting model: X right, Y up, Z toward viewer.
		n := basis.MulVec3(m.Normal(mesh.FaceID(f)))
		fill := light.Apply(opts.Surface, light.Shade(mathutil.Vec3{n[0], -n[1], -n[2]}))

		RasterizeTriangle(fb, [3]ScreenVert{verts[vs[0]], verts[vs[1]], verts[vs[2]]}, fill, opts.Wire, wire)
	}

	img := fb.Image()
	if len(path) > 0 {
		drawPath(img, path, cam, opts, float64(ss))
	}

	if ss > 1 {
		img = Downsample(img, opts.Width, opts.Height)
	}
	return img
}

func drawPath(img *image.NRGBA, path []mathutil.Vec3, cam Camera, opts Options, scale float64) {
	b := img.Bounds()
	st := NewStroker(img)
	width := opts.LineWidth * scale

	// Split the polyline where it passes behind the eye.
	var run [][2]float64
	for _, p := range path {
		x, y, _, ok := cam.Project(p, b.Dx(), b.Dy())
		if !ok {
			st.Polyline(run, width, opts.Path)
			run = run[:0]
			continue
		}
		run = append(run, [2]float64{x, y})
	}
	st.Polyline(run, width, opts.Path)

	for i, c := range []color.NRGBA{opts.Source, opts.Target} {
		p := path[0]
		if i == 1 {
			p = path[len(path)-1]
		}
		if x, y, _, ok := cam.Project(p, b.Dx(), b.Dy()); ok {
			st.Dot([2]float64{x, y}, width*1.8, c)
		}
	}
}
