// Package config loads orbit element sets and transform settings from TOML.
//
// A file lists one or more [[orbit]] tables and an optional [transform]:
//
//	[[orbit]]
//	name = "b"
//	a = 10.0
//	e = 0.1
//	i = 30.0
//	omega = 120.0
//	node = 45.0
//	tau = 0.25
//	mass = 1.2
//	plx = 50.0
//	degrees = true
//
// Numbers must be written as TOML floats.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/naoina/toml"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-orbits/kepler"
	"github.com/litescript/ls-orbits/warp"
)

// ErrNoOrbit reports a lookup of an orbit that is not configured.
var ErrNoOrbit = errors.New("orbit not found")

// Config is the parsed contents of an orbit file.
type Config struct {
	Orbits    []Orbit   `toml:"orbit"`
	Transform Transform `toml:"transform"`
	Plot      Plot      `toml:"plot"`
}

// Orbit is one named element set. Angles are in radians unless Degrees is set.
type Orbit struct {
	Name    string  `toml:"name"`
	A       float64 `toml:"a"`
	E       float64 `toml:"e"`
	I       float64 `toml:"i"`
	Omega   float64 `toml:"omega"`
	Node    float64 `toml:"node"`
	Tau     float64 `toml:"tau"`
	Mass    float64 `toml:"mass"`
	Plx     float64 `toml:"plx"`
	Degrees bool    `toml:"degrees"`
}

// Transform configures an orbital image transform.
type Transform struct {
	E          float64 `toml:"e"`
	I          float64 `toml:"i"`
	Omega      float64 `toml:"omega"`
	Node       float64 `toml:"node"`
	Mass       float64 `toml:"mass"`
	Plx        float64 `toml:"plx"`
	Platescale float64 `toml:"platescale"`
	DT         float64 `toml:"dt"`
	Degrees    bool    `toml:"degrees"`
}

// Plot configures the terminal plot.
type Plot struct {
	Samples int     `toml:"samples"`
	Step    float64 `toml:"step"` // days per tick
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Plot: Plot{Samples: 361, Step: 10},
	}
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of DefaultConfig and validates every orbit.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Plot.Samples < 2 {
		return nil, fmt.Errorf("plot samples must be at least 2, got %d", cfg.Plot.Samples)
	}

	seen := make(map[string]bool)
	for i := range cfg.Orbits {
		o := &cfg.Orbits[i]
		if o.Name == "" {
			o.Name = fmt.Sprintf("orbit%d", i+1)
		}
		if seen[o.Name] {
			return nil, fmt.Errorf("duplicate orbit name %q", o.Name)
		}
		seen[o.Name] = true
		if _, err := o.Elements(); err != nil {
			return nil, fmt.Errorf("orbit %q: %w", o.Name, err)
		}
	}
	return cfg, nil
}

// Elements converts o to validated orbital elements.
func (o Orbit) Elements() (kepler.Elements[float64], error) {
	i, omega, node := radians(o.Degrees, o.I, o.Omega, o.Node)
	return kepler.New(o.A, o.E, i, omega, node, o.Tau, o.Mass, o.Plx)
}

// Orbit returns the orbit called name.
func (c *Config) Orbit(name string) (Orbit, error) {
	for _, o := range c.Orbits {
		if o.Name == name {
			return o, nil
		}
	}
	return Orbit{}, fmt.Errorf("%w: %q", ErrNoOrbit, name)
}

// HasTransform reports whether a [transform] table was given.
func (c *Config) HasTransform() bool {
	return c.Transform.Platescale != 0
}

// WarpConfig converts t to a warp.Config.
func (t Transform) WarpConfig() warp.Config {
	i, omega, node := radians(t.Degrees, t.I, t.Omega, t.Node)
	return warp.Config{
		I:          i,
		E:          t.E,
		ArgPeri:    omega,
		Node:       node,
		M:          t.Mass,
		Plx:        t.Plx,
		Platescale: t.Platescale,
		DT:         t.DT,
	}
}

func radians(deg bool, i, omega, node float64) (float64, float64, float64) {
	if !deg {
		return i, omega, node
	}
	return unit.AngleFromDeg(i).Rad(), unit.AngleFromDeg(omega).Rad(), unit.AngleFromDeg(node).Rad()
}
