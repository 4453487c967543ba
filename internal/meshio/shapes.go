package meshio

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"manifold-geodesic/internal/mathutil"
)

// Shape generates a closed primitive from a spec of the form name[:arg[:arg]]:
//
//	tetrahedron
//	octahedron
//	cube[:segments]
//	icosphere[:subdivisions]
//	torus[:rings[:sides]]
func Shape(spec string) (*Data, error) {
	parts := strings.Split(spec, ":")
	args := make([]int, len(parts)-1)
	for i, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("meshio: shape %q: argument %q: %w", spec, p, err)
		}
		args[i] = v
	}
	arg := func(i, def int) int {
		if i < len(args) {
			return args[i]
		}
		return def
	}

	switch parts[0] {
	case "tetrahedron":
		return Tetrahedron(), nil
	case "octahedron":
		return Octahedron(), nil
	case "cube":
		return Cube(arg(0, 1)), nil
	case "icosphere":
		return Icosphere(arg(0, 2)), nil
	case "torus":
		return Torus(arg(0, 24), arg(1, 12)), nil
	}
	return nil, fmt.Errorf("meshio: unknown shape %q", parts[0])
}

// Tetrahedron returns a regular tetrahedron inscribed in the cube [-1,1]³.
func Tetrahedron() *Data {
	return &Data{
		Name: "tetrahedron",
		Positions: []mathutil.Vec3{
			{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1},
		},
		Triangles: [][3]int{
			{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2},
		},
	}
}

// Octahedron returns the unit octahedron with vertices on the coordinate axes.
func Octahedron() *Data {
	// +x -x +y -y +z -z
	return &Data{
		Name: "octahedron",
		Positions: []mathutil.Vec3{
			{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		},
		Triangles: [][3]int{
			{0, 2, 4}, {2, 1, 4}, {1, 3, 4}, {3, 0, 4},
			{2, 0, 5}, {1, 2, 5}, {3, 1, 5}, {0, 3, 5},
		},
	}
}

// Cube returns the cube [-1,1]³ with each side split into segs×segs quads.
func Cube(segs int) *Data {
	if segs < 1 {
		segs = 1
	}
	d := &Data{Name: fmt.Sprintf("cube-%d", segs)}
	index := make(map[[3]int]int)
	vert := func(l [3]int) int {
		if i, ok := index[l]; ok {
			return i
		}
		i := len(d.Positions)
		d.Positions = append(d.Positions, mathutil.Vec3{
			float64(l[0])/float64(segs)*2 - 1,
			float64(l[1])/float64(segs)*2 - 1,
			float64(l[2])/float64(segs)*2 - 1,
		})
		index[l] = i
		return i
	}

	for axis := 0; axis < 3; axis++ {
		ua, va := (axis+1)%3, (axis+2)%3
		for _, side := range []int{0, segs} {
			for u := 0; u < segs; u++ {
				for v := 0; v < segs; v++ {
					corner := func(du, dv int) int {
						var l [3]int
						l[axis] = side
						l[ua] = u + du
						l[va] = v + dv
						return vert(l)
					}
					p00, p10, p11, p01 := corner(0, 0), corner(1, 0), corner(1, 1), corner(0, 1)
					if side == segs {
						d.Triangles = append(d.Triangles, [3]int{p00, p10, p11}, [3]int{p00, p11, p01})
					} else {
						d.Triangles = append(d.Triangles, [3]int{p00, p11, p10}, [3]int{p00, p01, p11})
					}
				}
			}
		}
	}
	return d
}

// Icosphere returns a unit sphere made by subdividing an icosahedron.
func Icosphere(subdivisions int) *Data {
	t := (1 + math.Sqrt(5)) / 2
	d := &Data{Name: fmt.Sprintf("icosphere-%d", subdivisions)}
	for _, p := range []mathutil.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	} {
		d.Positions = append(d.Positions, p.Normalize())
	}
	d.Triangles = [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for s := 0; s < subdivisions; s++ {
		mids := make(map[[2]int]int)
		mid := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if i, ok := mids[key]; ok {
				return i
			}
			i := len(d.Positions)
			d.Positions = append(d.Positions, d.Positions[a].Mid(d.Positions[b]).Normalize())
			mids[key] = i
			return i
		}
		next := make([][3]int, 0, len(d.Triangles)*4)
		for _, tri := range d.Triangles {
			a, b, c := tri[0], tri[1], tri[2]
			ab, bc, ca := mid(a, b), mid(b, c), mid(c, a)
			next = append(next,
				[3]int{a, ab, ca},
				[3]int{b, bc, ab},
				[3]int{c, ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		d.Triangles = next
	}
	return d
}

// Torus returns a ring torus around the Z axis with major radius 1 and minor
// radius 0.4. Its Euler characteristic is 0.
func Torus(rings, sides int) *Data {
	rings = max(rings, 3)
	sides = max(sides, 3)
	const major, minor = 1.0, 0.4

	d := &Data{Name: fmt.Sprintf("torus-%dx%d", rings, sides)}
	for i := 0; i < rings; i++ {
		u := 2 * math.Pi * float64(i) / float64(rings)
		for j := 0; j < sides; j++ {
			v := 2 * math.Pi * float64(j) / float64(sides)
			r := major + minor*math.Cos(v)
			d.Positions = append(d.Positions, mathutil.Vec3{r * math.Cos(u), r * math.Sin(u), minor * math.Sin(v)})
		}
	}
	at := func(i, j int) int {
		return (i%rings)*sides + j%sides
	}
	for i := 0; i < rings; i++ {
		for j := 0; j < sides; j++ {
			p00, p10, p11, p01 := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			d.Triangles = append(d.Triangles, [3]int{p00, p10, p11}, [3]int{p00, p11, p01})
		}
	}
	return d
}
