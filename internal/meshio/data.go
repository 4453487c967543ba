// Package meshio loads triangle meshes from Wavefront OBJ and STL files and
// generates closed primitive shapes.
package meshio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"manifold-geodesic/internal/mathutil"
	"manifold-geodesic/internal/mesh"
)

// Data is a triangle soup as read from a file: positions plus vertex index
// triples. It is the only input accepted by mesh.Build.
type Data struct {
	Name      string
	Positions []mathutil.Vec3
	Triangles [][3]int
	Warnings  []string
}

// Build turns the soup into a half-edge mesh.
func (d *Data) Build() (*mesh.Mesh, error) {
	m, err := mesh.Build(d.Positions, d.Triangles)
	if err != nil {
		return nil, fmt.Errorf("meshio: %s: %w", d.Name, err)
	}
	return m, nil
}

// Load reads a mesh file, choosing the decoder by extension (.obj, .stl).
// A path of the form "shape:<name>[:args]" generates a primitive instead;
// see Shape.
func Load(path string) (*Data, error) {
	if spec, ok := strings.CutPrefix(path, "shape:"); ok {
		return Shape(spec)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open %s: %w", path, err)
	}
	defer f.Close()

	var d *Data
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		d, err = DecodeOBJ(f)
	case ".stl":
		d, err = DecodeSTL(f)
	default:
		return nil, fmt.Errorf("meshio: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("meshio: decode %s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return d, nil
}

// LoadMesh is Load followed by Build.
func LoadMesh(path string) (*mesh.Mesh, *Data, error) {
	d, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	m, err := d.Build()
	if err != nil {
		return nil, d, err
	}
	return m, d, nil
}
