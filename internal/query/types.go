// Package query reads geodesic queries from JSON or YAML files and resolves
// their endpoints against a mesh.
package query

// Query asks for the path between two surface points.
type Query struct {
	Name   string   `json:"name" yaml:"name"`
	Source Endpoint `json:"source" yaml:"source"`
	Target Endpoint `json:"target" yaml:"target"`
}

// Endpoint describes a surface point. Exactly one of the following forms
// must be used:
//
//	{face}           centroid of the face
//	{face, bary}     barycentric weights over the face corners
//	{face, point}    explicit point on the face
//	{point}          point located on the surface
//	{ray}            first hit of a ray
//	{pixel}          first hit through a pixel of the render camera
type Endpoint struct {
	Face  *int      `json:"face,omitempty" yaml:"face,omitempty"`
	Bary  []float64 `json:"bary,omitempty" yaml:"bary,omitempty"`
	Point []float64 `json:"point,omitempty" yaml:"point,omitempty"`
	Ray   *Ray      `json:"ray,omitempty" yaml:"ray,omitempty"`
	Pixel []float64 `json:"pixel,omitempty" yaml:"pixel,omitempty"`
}

// Ray is a pick ray in world space.
type Ray struct {
	Origin []float64 `json:"origin" yaml:"origin"`
	Dir    []float64 `json:"dir" yaml:"dir"`
}
