package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"manifold-geodesic/internal/imageout"
	"manifold-geodesic/internal/relax"
	"manifold-geodesic/internal/render"
)

// Config holds input paths, relaxation constants and render settings.
type Config struct {
	// Paths
	Mesh      string `json:"mesh" toml:"mesh" yaml:"mesh"`
	Queries   string `json:"queries" toml:"queries" yaml:"queries"`
	OutputDir string `json:"output_dir" toml:"output_dir" yaml:"output_dir"`

	// Relaxation
	Iterations int     `json:"iterations" toml:"iterations" yaml:"iterations"`
	Damping    float64 `json:"damping" toml:"damping" yaml:"damping"`
	Epsilon    float64 `json:"epsilon" toml:"epsilon" yaml:"epsilon"`

	// Render settings
	Render      bool    `json:"render" toml:"render" yaml:"render"`
	RenderSize  int     `json:"render_size" toml:"render_size" yaml:"render_size"`
	Supersample int     `json:"supersample" toml:"supersample" yaml:"supersample"`
	Format      string  `json:"format" toml:"format" yaml:"format"`
	Wireframe   *bool   `json:"wireframe" toml:"wireframe" yaml:"wireframe"`
	CameraPhi   float64 `json:"camera_phi" toml:"camera_phi" yaml:"camera_phi"`
	CameraTheta float64 `json:"camera_theta" toml:"camera_theta" yaml:"camera_theta"`
	CameraZoom  float64 `json:"camera_zoom" toml:"camera_zoom" yaml:"camera_zoom"`

	Workers int `json:"workers" toml:"workers" yaml:"workers"`
}

// Load reads a config file, choosing the syntax by extension: .json, .toml,
// .yaml or .yml. Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Relative paths are relative to the config file.
	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Mesh, &cfg.Queries, &cfg.OutputDir} {
		if *p != "" && !filepath.IsAbs(*p) && !strings.HasPrefix(*p, "shape:") {
			*p = filepath.Join(dir, *p)
		}
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Mesh       string
	Queries    string
	OutputDir  string
	Format     string
	Iterations int
	Damping    float64
	Workers    int
	Render     bool
}

// Resolve applies CLI overrides, then fills any unset field with its default.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Mesh != "" {
		c.Mesh = flags.Mesh
	}
	if flags.Queries != "" {
		c.Queries = flags.Queries
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Iterations > 0 {
		c.Iterations = flags.Iterations
	}
	if flags.Damping > 0 {
		c.Damping = flags.Damping
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Render {
		c.Render = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "geodesic-out"
	}

	// Defaults for relaxation
	if c.Iterations <= 0 {
		c.Iterations = relax.DefaultIterations
	}
	if c.Damping <= 0 {
		c.Damping = relax.DefaultDamping
	}
	if c.Epsilon <= 0 {
		c.Epsilon = relax.DefaultEpsilon
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Format == "" {
		c.Format = string(imageout.WebP)
	}
	if c.Wireframe == nil {
		on := true
		c.Wireframe = &on
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Relaxer returns the relaxation settings. Parallelism inside one path is
// left off; batch runs already spread queries over Workers.
func (c *Config) Relaxer() relax.Relaxer {
	return relax.Relaxer{
		Iterations: c.Iterations,
		Damping:    c.Damping,
		Epsilon:    c.Epsilon,
		Workers:    1,
	}
}

// RenderOptions returns the image settings.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Width = c.RenderSize
	opts.Height = c.RenderSize
	opts.Supersample = c.Supersample
	if c.Wireframe != nil {
		opts.Wireframe = *c.Wireframe
	}
	return opts
}

// Camera frames the mesh described by fit, then applies any camera angles
// or zoom set in the config.
func (c *Config) Camera(fit render.Camera) render.Camera {
	if c.CameraPhi != 0 {
		fit.Phi = c.CameraPhi
	}
	if c.CameraTheta != 0 {
		fit.Theta = c.CameraTheta
	}
	if c.CameraZoom > 0 {
		fit.Zoom = c.CameraZoom
	}
	return fit
}

// ImageFormat parses Format.
func (c *Config) ImageFormat() (imageout.Format, error) {
	return imageout.ParseFormat(c.Format)
}
