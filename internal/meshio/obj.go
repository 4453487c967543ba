package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"manifold-geodesic/internal/mathutil"
)

type objDecoder struct {
	data *Data
	line int
}

// DecodeOBJ reads vertex positions and faces from a Wavefront OBJ stream.
// Faces with more than three corners are fan-triangulated. Texture
// coordinates, normals and material statements are accepted and ignored;
// every object and group shares one vertex pool and ends up in one mesh.
func DecodeOBJ(r io.Reader) (*Data, error) {
	dec := &objDecoder{data: &Data{}}
	bufin := bufio.NewReader(r)
	for {
		dec.line++
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if perr := dec.parseLine(strings.TrimSpace(line)); perr != nil {
			return nil, perr
		}
		if err == io.EOF {
			break
		}
	}
	if len(dec.data.Triangles) == 0 {
		return nil, errors.New("obj: no faces")
	}
	return dec.data, nil
}

func (dec *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "v":
		return dec.parseVertex(fields[1:])
	case "f":
		return dec.parseFace(fields[1:])
	case "o", "g":
		if dec.data.Name == "" && len(fields) > 1 {
			dec.data.Name = fields[1]
		}
	case "vt", "vn", "vp", "s", "usemtl", "mtllib", "l":
	default:
		dec.warn("statement not supported: " + fields[0])
	}
	return nil
}

func (dec *objDecoder) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return dec.errorf("vertex with %d coordinates", len(fields))
	}
	var p mathutil.Vec3
	for i, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return dec.errorf("vertex coordinate %q: %v", f, err)
		}
		p[i] = val
	}
	dec.data.Positions = append(dec.data.Positions, p)
	return nil
}

func (dec *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return dec.errorf("face with %d corners", len(fields))
	}
	idx := make([]int, len(fields))
	for i, f := range fields {
		// v, v/vt, v//vn or v/vt/vn: only the position index matters.
		vs, _, _ := strings.Cut(f, "/")
		val, err := strconv.Atoi(vs)
		if err != nil {
			return dec.errorf("face index %q: %v", f, err)
		}
		switch {
		case val > 0:
			idx[i] = val - 1
		case val < 0:
			// Relative to the last vertex parsed so far.
			idx[i] = len(dec.data.Positions) + val
		default:
			return dec.errorf("face vertex index 0")
		}
		if idx[i] < 0 || idx[i] >= len(dec.data.Positions) {
			return dec.errorf("face vertex index %d out of range (%d vertices)", val, len(dec.data.Positions))
		}
	}
	if len(idx) > 3 {
		dec.warn(fmt.Sprintf("%d-gon fan-triangulated", len(idx)))
	}
	for k := 1; k+1 < len(idx); k++ {
		dec.data.Triangles = append(dec.data.Triangles, [3]int{idx[0], idx[k], idx[k+1]})
	}
	return nil
}

func (dec *objDecoder) errorf(format string, args ...any) error {
	return fmt.Errorf("obj: line %d: %s", dec.line, fmt.Sprintf(format, args...))
}

func (dec *objDecoder) warn(msg string) {
	dec.data.Warnings = append(dec.data.Warnings, fmt.Sprintf("obj: line %d: %s", dec.line, msg))
}
