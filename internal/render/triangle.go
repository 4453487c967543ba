package render

import (
	"image/color"
	"math"
)

// ScreenVert is a projected vertex: pixel position plus inverse depth
// (larger is closer), which interpolates linearly in screen space.
type ScreenVert struct {
	X, Y, InvZ float64
}

// RasterizeTriangle fills a triangle with a flat color using the z-buffer.
// When wire > 0, pixels closer than wire pixels to an edge get the wire
// color instead, which gives a depth-correct wireframe.
//
// This is the hot path: no allocation inside the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v [3]ScreenVert, fill, wireColor color.NRGBA, wire float64) {
	x0, y0, z0 := v[0].X, v[0].Y, v[0].InvZ
	x1, y1, z1 := v[1].X, v[1].Y, v[1].InvZ
	x2, y2, z2 := v[2].X, v[2].Y, v[2].InvZ

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Pixel height of the triangle over each edge, opposite vertex i.
	area2 := math.Abs(det)
	h0 := area2 / math.Hypot(x2-x1, y2-y1)
	h1 := area2 / math.Hypot(x0-x2, y0-y2)
	h2 := area2 / math.Hypot(x1-x0, y1-y0)

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			c := fill
			if wire > 0 && (w0*h0 < wire || w1*h1 < wire || w2*h2 < wire) {
				c = wireColor
			}
			pxIdx := zIdx * 4
			fb.Color[pxIdx] = c.R
			fb.Color[pxIdx+1] = c.G
			fb.Color[pxIdx+2] = c.B
			fb.Color[pxIdx+3] = c.A
		}
	}
}
