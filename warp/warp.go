// Package warp maps image pixels along Keplerian orbits.
//
// Given every orbital element except the semi-major axis and the periastron
// epoch, each pixel defines exactly one orbit passing through it at t = 0. A
// Transform moves the pixel along that orbit by DT days. This lets an image
// taken at one epoch be resampled as it would appear at another, for a
// family of orbits sharing i, e, ω and Ω.
package warp

import (
	"errors"
	"fmt"
	"math"

	"github.com/litescript/ls-orbits/kepler"
)

var (
	// ErrInvalidTransform reports a transform that cannot be built.
	ErrInvalidTransform = errors.New("invalid orbital transform")

	// ErrTransformDomain reports a pixel the transform cannot map.
	ErrTransformDomain = errors.New("pixel outside transform domain")
)

// minCosI is the smallest |cos i| for which the sky plane can be
// de-projected onto the orbital plane.
const minCosI = 1e-12

// Config describes an orbital transform. Angles are in radians, M in solar
// masses, Plx in mas.
type Config struct {
	I       float64
	E       float64
	ArgPeri float64
	Node    float64
	M       float64
	Plx     float64

	Platescale float64 // mas per pixel
	DT         float64 // days

	// A and Tau are solved per pixel and must be left nil.
	A   *float64
	Tau *float64
}

// Mapper maps an output pixel to its source pixel.
type Mapper interface {
	Apply(x, y float64) (float64, float64, error)
}

// Transform is an immutable orbital transform; it is safe for concurrent use.
type Transform struct {
	cfg              Config
	sinNode, cosNode float64
	cosI             float64
}

// New validates cfg and returns a Transform.
func New(cfg Config) (*Transform, error) {
	if cfg.A != nil {
		return nil, fmt.Errorf("%w: semi-major axis is determined per pixel", ErrInvalidTransform)
	}
	if cfg.Tau != nil {
		return nil, fmt.Errorf("%w: periastron epoch is determined per pixel", ErrInvalidTransform)
	}
	if !(cfg.Platescale > 0) || math.IsInf(cfg.Platescale, 0) {
		return nil, fmt.Errorf("%w: platescale must be positive, got %v", ErrInvalidTransform, cfg.Platescale)
	}
	if math.IsNaN(cfg.DT) || math.IsInf(cfg.DT, 0) {
		return nil, fmt.Errorf("%w: time step must be finite, got %v", ErrInvalidTransform, cfg.DT)
	}
	// Check the shared elements with a placeholder orbit.
	if _, err := kepler.New(1, cfg.E, cfg.I, cfg.ArgPeri, cfg.Node, 0, cfg.M, cfg.Plx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransform, err)
	}

	sn, cn := math.Sincos(cfg.Node)
	return &Transform{
		cfg:     cfg,
		sinNode: sn,
		cosNode: cn,
		cosI:    math.Cos(cfg.I),
	}, nil
}

// Config returns the configuration the transform was built from.
func (tr *Transform) Config() Config { return tr.cfg }

// Inverse returns the transform that moves pixels back by DT.
func (tr *Transform) Inverse() *Transform {
	inv := *tr
	inv.cfg.DT = -tr.cfg.DT
	return &inv
}

// Apply maps the pixel (x, y), measured from the primary with x along right
// ascension and y along declination, to its position DT days later.
func (tr *Transform) Apply(x, y float64) (float64, float64, error) {
	wx, wy, _, err := tr.Follow(x, y)
	return wx, wy, err
}

// Follow is Apply that also returns the orbit through (x, y).
func (tr *Transform) Follow(x, y float64) (float64, float64, kepler.Elements[float64], error) {
	el, err := tr.Orbit(x, y)
	if err != nil {
		return math.NaN(), math.NaN(), el, err
	}
	sol, err := kepler.Solve(el, tr.cfg.DT)
	if err != nil {
		return math.NaN(), math.NaN(), el, fmt.Errorf("%w: %w", ErrTransformDomain, err)
	}
	return sol.X / tr.cfg.Platescale, sol.Y / tr.cfg.Platescale, el, nil
}

// Orbit returns the orbit that passes through pixel (x, y) at t = 0.
func (tr *Transform) Orbit(x, y float64) (kepler.Elements[float64], error) {
	cfg := tr.cfg
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return kepler.Elements[float64]{}, fmt.Errorf("%w: non-finite pixel (%v, %v)", ErrTransformDomain, x, y)
	}
	if math.Abs(tr.cosI) < minCosI {
		return kepler.Elements[float64]{}, fmt.Errorf("%w: edge-on orbit cannot be de-projected", ErrTransformDomain)
	}

	// Sky offset [AU].
	dx := x * cfg.Platescale / cfg.Plx
	dy := y * cfg.Platescale / cfg.Plx

	// Undo the node rotation and the inclination: (u, v) = r(cos θ, sin θ).
	u := dx*tr.sinNode + dy*tr.cosNode
	v := (dx*tr.cosNode - dy*tr.sinNode) / tr.cosI
	r := math.Hypot(u, v)
	if r == 0 {
		return kepler.Elements[float64]{}, fmt.Errorf("%w: pixel (%v, %v) is at the primary", ErrTransformDomain, x, y)
	}

	nu := math.Atan2(v, u) - cfg.ArgPeri
	a := r * (1 + cfg.E*math.Cos(nu)) / (1 - cfg.E*cfg.E)
	if !(a > 0) || math.IsInf(a, 0) {
		return kepler.Elements[float64]{}, fmt.Errorf("%w: recovered semi-major axis %v", ErrTransformDomain, a)
	}

	ar := kepler.Float{}
	m0 := kepler.MeanAnomaly[float64](ar, kepler.EccentricFromTrue[float64](ar, nu, cfg.E), cfg.E)
	tau := -m0 / (2 * math.Pi)
	tau -= math.Floor(tau)

	el, err := kepler.New(a, cfg.E, cfg.I, cfg.ArgPeri, cfg.Node, tau, cfg.M, cfg.Plx)
	if err != nil {
		return kepler.Elements[float64]{}, fmt.Errorf("%w: %w", ErrTransformDomain, err)
	}
	return el, nil
}
