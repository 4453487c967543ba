package render

import (
	"image/color"
	"math"

	"manifold-geodesic/internal/mathutil"
)

// Light shades faces in eye space (X right, Y up, Z toward the viewer). The
// key light sits above and to the right of the camera so the lit side of the
// mesh always faces the viewer; the fill comes from the lower left.
type Light struct {
	Key, Fill mathutil.Vec3
	Ambient   float64
	Diffuse   float64
	FillLevel float64
	Specular  float64
	Shininess float64
	Exposure  float64

	half mathutil.Vec3 // Blinn-Phong half-vector of Key and the view axis
}

func DefaultLight() Light {
	l := Light{
		Key:       mathutil.Vec3{0.45, 0.65, 0.6}.Normalize(),
		Fill:      mathutil.Vec3{-0.6, -0.3, 0.5}.Normalize(),
		Ambient:   0.30,
		Diffuse:   0.95,
		FillLevel: 0.30,
		Specular:  0.20,
		Shininess: 16,
		Exposure:  1.0,
	}
	l.half = l.Key.Add(mathutil.Vec3{0, 0, 1}).Normalize()
	return l
}

// Shade returns the light intensity for a unit eye-space normal. Both sides
// of a face are lit alike, so inverted or inward-facing triangles still read.
func (l *Light) Shade(n mathutil.Vec3) float64 {
	key := math.Abs(n.Dot(l.Key))
	fill := math.Abs(n.Dot(l.Fill))
	spec := math.Pow(math.Abs(n.Dot(l.half)), l.Shininess)
	return l.Ambient + key*l.Diffuse + fill*l.FillLevel + spec*l.Specular
}

// Apply lights an sRGB color in linear space, tone-maps it with the ACES
// filmic curve and converts back to sRGB. Alpha is kept.
func (l *Light) Apply(c color.NRGBA, shade float64) color.NRGBA {
	k := shade * l.Exposure
	ch := func(v uint8) uint8 {
		return clamp255(math.Pow(aces(srgbToLinear[v]*k), 1/2.2) * 255)
	}
	return color.NRGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255, 2.2)
	}
}

func aces(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
