// Package kepler evaluates Keplerian orbits for direct-imaging astrometry.
//
// The kernel (Kepler solver, true anomaly, sky projection) is written once
// against the Arith capability set, so the same code path runs on float64,
// on dual numbers (see package dual) and on symbolic expressions (see package
// symbolic).
//
// Units are fixed: a in AU, angles in radians, τ as a fraction of the orbit,
// M in solar masses, parallax in milliarcseconds, times in days. Outputs are
// milliarcseconds, mas/yr, mas/yr², m/s, days and parsecs.
//
// All formulas use the small-angle approximation: the separation between
// primary and secondary must be much smaller than the distance to the
// observer. No spherical corrections are applied.
package kepler

import "math"

// Arith is the minimal set of scalar operations the orbit kernel needs.
//
// Float returns the numeric value used for validation, branching and range
// reduction. Implementations for derivative-tracking or symbolic types return
// the primal value there.
type Arith[T any] interface {
	Const(v float64) T
	Float(x T) float64

	Add(x, y T) T
	Sub(x, y T) T
	Mul(x, y T) T
	Div(x, y T) T
	Neg(x T) T

	Sin(x T) T
	Cos(x T) T
	Sqrt(x T) T
	Cbrt(x T) T
	Atan2(y, x T) T
}

// Float is the float64 implementation of Arith.
type Float struct{}

func (Float) Const(v float64) float64    { return v }
func (Float) Float(x float64) float64    { return x }
func (Float) Add(x, y float64) float64   { return x + y }
func (Float) Sub(x, y float64) float64   { return x - y }
func (Float) Mul(x, y float64) float64   { return x * y }
func (Float) Div(x, y float64) float64   { return x / y }
func (Float) Neg(x float64) float64      { return -x }
func (Float) Sin(x float64) float64      { return math.Sin(x) }
func (Float) Cos(x float64) float64      { return math.Cos(x) }
func (Float) Sqrt(x float64) float64     { return math.Sqrt(x) }
func (Float) Cbrt(x float64) float64     { return math.Cbrt(x) }
func (Float) Atan2(y, x float64) float64 { return math.Atan2(y, x) }

// abs branches on the primal value so derivative parts keep their sign.
func abs[T any](ar Arith[T], x T) T {
	if ar.Float(x) < 0 {
		return ar.Neg(x)
	}
	return x
}

func square[T any](ar Arith[T], x T) T {
	return ar.Mul(x, x)
}

func hypot[T any](ar Arith[T], x, y T) T {
	return ar.Sqrt(ar.Add(ar.Mul(x, x), ar.Mul(y, y)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
