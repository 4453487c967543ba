package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
	"manifold-geodesic/internal/meshio"
	"manifold-geodesic/internal/pick"
	"manifold-geodesic/internal/search"
)

const queriesJSON = `[
  {"name": "pole", "source": {"face": 0}, "target": {"face": 6, "bary": [1, 2, 1]}},
  {"source": {"point": [0.1, 0.2, 0.7]}, "target": {"ray": {"origin": [0, 0, -5], "dir": [0.01, 0.02, 1]}}},
  {"source": {"pixel": [10, 20]}, "target": {"face": 3, "point": [0.25, -0.25, 0.5]}}
]`

const queriesYAML = `
- name: pole
  source: {face: 0}
  target: {face: 6, bary: [1, 2, 1]}
- source:
    point: [0.1, 0.2, 0.7]
  target:
    ray:
      origin: [0, 0, -5]
      dir: [0.01, 0.02, 1]
- source: {pixel: [10, 20]}
  target: {face: 3, point: [0.25, -0.25, 0.5]}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse(t *testing.T) {
	for name, content := range map[string]string{"q.json": queriesJSON, "q.yaml": queriesYAML} {
		t.Run(name, func(t *testing.T) {
			qs, err := Parse(writeFile(t, name, content))
			require.NoError(t, err)
			require.Len(t, qs, 3)

			assert.Equal(t, "pole", qs[0].Name)
			assert.Equal(t, "query-001", qs[1].Name)
			assert.Equal(t, "query-002", qs[2].Name)

			require.NotNil(t, qs[0].Source.Face)
			assert.Equal(t, 0, *qs[0].Source.Face)
			assert.Equal(t, []float64{1, 2, 1}, qs[0].Target.Bary)
			assert.Equal(t, []float64{0.1, 0.2, 0.7}, qs[1].Source.Point)
			require.NotNil(t, qs[1].Target.Ray)
			assert.Equal(t, []float64{0, 0, -5}, qs[1].Target.Ray.Origin)
			assert.Equal(t, []float64{10, 20}, qs[2].Source.Pixel)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(writeFile(t, "q.txt", queriesJSON))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = Parse(writeFile(t, "q.json", `{"not": "a list"}`))
	assert.Error(t, err)

	_, err = Parse(writeFile(t, "q.json", `[{"name": "bad", "source": {}, "target": {"face": 1}}]`))
	assert.ErrorContains(t, err, "bad: source: empty endpoint")

	_, err = Parse(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Parse(writeFile(t, "q.json", `[
  {"name": "dup", "source": {"face": 0}, "target": {"face": 1}},
  {"name": "dup", "source": {"face": 2}, "target": {"face": 3}}
]`))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = Parse(writeFile(t, "q.yaml", `
- name: ../escaped
  source: {face: 0}
  target: {face: 1}
`))
	assert.ErrorIs(t, err, ErrBadName)
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"pole", true},
		{"query-001", true},
		{"a.b", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../escaped", false},
		{"sub/dir", false},
		{`sub\dir`, false},
		{"a..b", false},
		{"nul\x00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrBadName)
			}
		})
	}
}

func TestEndpointValidate(t *testing.T) {
	face := 2
	tests := []struct {
		name string
		e    Endpoint
		ok   bool
	}{
		{"face", Endpoint{Face: &face}, true},
		{"face bary", Endpoint{Face: &face, Bary: []float64{1, 1, 1}}, true},
		{"face point", Endpoint{Face: &face, Point: []float64{0, 0, 0}}, true},
		{"point", Endpoint{Point: []float64{0, 0, 0}}, true},
		{"ray", Endpoint{Ray: &Ray{Origin: []float64{0, 0, 0}, Dir: []float64{1, 0, 0}}}, true},
		{"pixel", Endpoint{Pixel: []float64{1, 2}}, true},
		{"empty", Endpoint{}, false},
		{"bary without face", Endpoint{Bary: []float64{1, 1, 1}}, false},
		{"bary and point", Endpoint{Face: &face, Bary: []float64{1, 1, 1}, Point: []float64{0, 0, 0}}, false},
		{"point and pixel", Endpoint{Point: []float64{0, 0, 0}, Pixel: []float64{1, 2}}, false},
		{"short bary", Endpoint{Face: &face, Bary: []float64{1, 1}}, false},
		{"long pixel", Endpoint{Pixel: []float64{1, 2, 3}}, false},
		{"short ray dir", Endpoint{Ray: &Ray{Origin: []float64{0, 0, 0}, Dir: []float64{1}}}, false},
		{"negative bary", Endpoint{Face: &face, Bary: []float64{2, -1, 0}}, false},
		{"zero bary", Endpoint{Face: &face, Bary: []float64{0, 0, 0}}, false},
		{"edge bary", Endpoint{Face: &face, Bary: []float64{0, 1, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

type fixedViewport struct{ ray pick.Ray }

func (v fixedViewport) PixelRay(x, y float64) pick.Ray { return v.ray }

func octahedron(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := meshio.Octahedron().Build()
	require.NoError(t, err)
	return m
}

func intp(v int) *int { return &v }

func TestResolve(t *testing.T) {
	m := octahedron(t)
	down := fixedViewport{pick.Ray{Origin: mathutil.Vec3{0.1, 0.2, 5}, Dir: mathutil.Vec3{0, 0, -1}}}

	tests := []struct {
		name string
		e    Endpoint
		face mesh.FaceID
		at   mathutil.Vec3
	}{
		{"centroid", Endpoint{Face: intp(0)}, 0, mathutil.Vec3{1.0 / 3, 1.0 / 3, 1.0 / 3}},
		{"bary", Endpoint{Face: intp(0), Bary: []float64{2, 0, 0}}, 0, mathutil.Vec3{1, 0, 0}},
		{"face point", Endpoint{Face: intp(0), Point: []float64{0.5, 0.25, 0.25}}, 0, mathutil.Vec3{0.5, 0.25, 0.25}},
		{"point", Endpoint{Point: []float64{-0.5, -0.25, -0.25}}, 6, mathutil.Vec3{-0.5, -0.25, -0.25}},
		{"ray", Endpoint{Ray: &Ray{Origin: []float64{0.1, 0.2, 5}, Dir: []float64{0, 0, -2}}}, 0, mathutil.Vec3{0.1, 0.2, 0.7}},
		{"pixel", Endpoint{Pixel: []float64{0, 0}}, 0, mathutil.Vec3{0.1, 0.2, 0.7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.e.Resolve(m, down)
			require.NoError(t, err)
			assert.Equal(t, tt.face, got.Face)
			assert.InDelta(t, 0, got.Point.Dist(tt.at), 1e-9)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	m := octahedron(t)

	_, err := Endpoint{Face: intp(8)}.Resolve(m, nil)
	assert.ErrorIs(t, err, search.ErrInvalidFace)

	_, err = Endpoint{Face: intp(0), Point: []float64{-0.5, -0.25, -0.25}}.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrFaceOutside)

	_, err = Endpoint{Face: intp(0), Bary: []float64{2, -1, 0}}.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrFaceOutside)

	_, err = Endpoint{Face: intp(0), Bary: []float64{1, -1, 0}}.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrFaceOutside)

	_, err = Endpoint{Point: []float64{3, 3, 3}}.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrMiss)

	_, err = Endpoint{Ray: &Ray{Origin: []float64{5, 5, 5}, Dir: []float64{1, 0, 0}}}.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrMiss)

	_, err = Endpoint{Pixel: []float64{1, 1}}.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrNoViewport)

	q := Query{Name: "q", Source: Endpoint{Face: intp(1)}, Target: Endpoint{Point: []float64{3, 3, 3}}}
	_, _, err = q.Resolve(m, nil)
	assert.ErrorIs(t, err, ErrMiss)
	assert.ErrorContains(t, err, "q: target")
}
