// Package ephem provides cached orbit ephemerides over time ranges.
package ephem

import (
	"context"

	"github.com/litescript/ls-orbits/kepler"
)

// Path is an orbit sampled at increasing epochs.
type Path struct {
	Name      string
	Times     []float64 // epochs [days]
	Solutions []kepler.Solution[float64]
}

// Start returns the first epoch, or 0 for an empty path.
func (p Path) Start() float64 {
	if len(p.Times) == 0 {
		return 0
	}
	return p.Times[0]
}

// End returns the last epoch, or 0 for an empty path.
func (p Path) End() float64 {
	if len(p.Times) == 0 {
		return 0
	}
	return p.Times[len(p.Times)-1]
}

// Provider defines the interface for ephemeris sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Path samples the named orbit at n epochs spanning [start, end] days.
	Path(ctx context.Context, name string, start, end float64, n int) (Path, error)

	// Available reports whether the provider knows the named orbit.
	Available(name string) bool
}
