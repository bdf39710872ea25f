package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Swarm-Sense/internal/swarm"
)

// Config is the on-disk run configuration shared by the viewer, the
// telemetry monitor and the headless report.
type Config struct {
	Formation  FormationConfig  `yaml:"formation"`
	Integrator IntegratorConfig `yaml:"integrator"`
	Outline    OutlineConfig    `yaml:"outline"`
	POV        int              `yaml:"pov"` // point-of-view agent index
}

// FormationConfig is the initial formation request.
type FormationConfig struct {
	Count     int    `yaml:"count"`
	Kind      string `yaml:"kind"`
	GroupSize int    `yaml:"group_size"`
}

// IntegratorConfig tunes the position integrator.
type IntegratorConfig struct {
	Alpha     float64    `yaml:"alpha"`
	Capacity  int        `yaml:"capacity"`
	PovOffset [3]float64 `yaml:"pov_offset"`
}

// OutlineConfig describes the path followed by the path-sampled formation.
// An empty Path selects the built-in star.
type OutlineConfig struct {
	Path     string  `yaml:"path"`
	Scale    float64 `yaml:"scale"`
	Height   float64 `yaml:"height"`
	Centered bool    `yaml:"centered"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	outline := swarm.DefaultOutlineOptions()
	return &Config{
		Formation: FormationConfig{
			Count:     100,
			Kind:      swarm.FormationGrid.String(),
			GroupSize: swarm.DefaultGroupSize,
		},
		Integrator: IntegratorConfig{
			Alpha:     swarm.DefaultAlpha,
			Capacity:  swarm.DefaultCapacity,
			PovOffset: swarm.DefaultPovOffset,
		},
		Outline: OutlineConfig{
			Scale:    outline.Scale,
			Height:   outline.Height,
			Centered: outline.Centered,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that cannot be clamped.
func (c *Config) Validate() error {
	if _, err := swarm.ParseKind(c.Formation.Kind); err != nil {
		return fmt.Errorf("formation.kind: %w", err)
	}
	if c.Integrator.Alpha <= 0 || c.Integrator.Alpha > 1 {
		return fmt.Errorf("integrator.alpha %.4f: must be in (0, 1]", c.Integrator.Alpha)
	}
	if c.Integrator.Capacity < 1 {
		return fmt.Errorf("integrator.capacity %d: must be positive", c.Integrator.Capacity)
	}
	if c.Outline.Scale <= 0 {
		return fmt.Errorf("outline.scale %.4f: must be positive", c.Outline.Scale)
	}
	if _, err := c.BuildOutline(); err != nil {
		return fmt.Errorf("outline.path: %w", err)
	}
	return nil
}

// Request converts the formation section into a swarm request.
func (c *Config) Request() (swarm.Request, error) {
	kind, err := swarm.ParseKind(c.Formation.Kind)
	if err != nil {
		return swarm.Request{}, err
	}
	return swarm.Request{
		Count:     c.Formation.Count,
		Kind:      kind,
		GroupSize: c.Formation.GroupSize,
	}, nil
}

// BuildOutline parses the configured path, or returns the built-in star.
func (c *Config) BuildOutline() (swarm.Outline, error) {
	if c.Outline.Path == "" {
		return swarm.DefaultOutline(), nil
	}
	return swarm.ParseOutline(c.Outline.Path, swarm.OutlineOptions{
		Scale:    c.Outline.Scale,
		Height:   c.Outline.Height,
		Centered: c.Outline.Centered,
	})
}

// NewIntegrator builds an integrator from the configuration, applies the
// initial request and selects the point-of-view agent.
func (c *Config) NewIntegrator(extra ...swarm.IntegratorOption) (*swarm.Integrator, error) {
	outline, err := c.BuildOutline()
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	req, err := c.Request()
	if err != nil {
		return nil, err
	}
	opts := []swarm.IntegratorOption{
		swarm.WithCapacity(c.Integrator.Capacity),
		swarm.WithAlpha(c.Integrator.Alpha),
		swarm.WithPovOffset(swarm.Vec3(c.Integrator.PovOffset)),
	}
	opts = append(opts, extra...)
	in := swarm.NewIntegrator(swarm.NewPlanner(outline), opts...)
	if err := in.Apply(req); err != nil {
		return nil, err
	}
	in.SetPointOfView(c.POV)
	return in, nil
}
