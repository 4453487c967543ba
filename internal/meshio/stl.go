package meshio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hschendel/stl"

	"manifold-geodesic/internal/mathutil"
)

const (
	stlHeaderSize = 80
	stlTriSize    = 4*3*4 + 2 // normal + 3 corners + attribute byte count
)

// DecodeSTL reads a binary or ASCII STL stream. STL stores every triangle
// with its own corners, so identical positions are welded into one vertex
// to recover the shared edges.
func DecodeSTL(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	name := ""
	if isBinarySTL(raw) {
		name = strings.TrimSpace(strings.TrimRight(string(raw[:stlHeaderSize]), "\x00"))
		if bytes.HasPrefix(raw, []byte("solid")) {
			// Keep the reader from taking a binary file for ASCII.
			raw = bytes.Clone(raw)
			copy(raw, "     ")
		}
	}

	solid, err := stl.ReadAll(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	if solid.IsAscii {
		name = strings.TrimSpace(solid.Name)
	}

	w := newWelder()
	w.data.Name = name
	for _, t := range solid.Triangles {
		var c [3]mathutil.Vec3
		for v, p := range t.Vertices {
			c[v] = mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
		}
		w.triangle(c)
	}
	if len(w.data.Triangles) == 0 {
		return nil, errors.New("stl: no triangles")
	}
	return w.data, nil
}

// isBinarySTL trusts the triangle count in the header when the byte size
// matches it; some binary exporters also start their header with "solid".
func isBinarySTL(raw []byte) bool {
	if len(raw) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(raw[stlHeaderSize:])
	if int64(len(raw)) == stlHeaderSize+4+int64(n)*stlTriSize {
		return true
	}
	return !bytes.HasPrefix(bytes.TrimLeft(raw, " \t\r\n"), []byte("solid"))
}

type welder struct {
	data  *Data
	index map[mathutil.Vec3]int
}

func newWelder() *welder {
	return &welder{data: &Data{}, index: make(map[mathutil.Vec3]int)}
}

func (w *welder) vertex(p mathutil.Vec3) int {
	if i, ok := w.index[p]; ok {
		return i
	}
	i := len(w.data.Positions)
	w.data.Positions = append(w.data.Positions, p)
	w.index[p] = i
	return i
}

func (w *welder) triangle(c [3]mathutil.Vec3) {
	tri := [3]int{w.vertex(c[0]), w.vertex(c[1]), w.vertex(c[2])}
	if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
		w.data.Warnings = append(w.data.Warnings, fmt.Sprintf("stl: triangle %d collapses after welding, dropped", len(w.data.Triangles)))
		return
	}
	w.data.Triangles = append(w.data.Triangles, tri)
}
