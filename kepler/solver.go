package kepler

import (
	"fmt"
	"math"
)

// EccentricAnomaly solves Kepler's equation M = E - e·sin(E) for E.
//
// It implements Markley (1995), Celestial Mechanics and Dynamical Astronomy
// 63, 101: a rational starter followed by a single fifth-order correction.
// There is no iteration; every call costs one sqrt, one cbrt, one sin and one
// cos. The result is accurate over 0 ≤ e < 1 and lies on the same 2π branch
// as meanAnom.
func EccentricAnomaly[T any](ar Arith[T], meanAnom, e T) (T, error) {
	mf, ef := ar.Float(meanAnom), ar.Float(e)
	if !isFinite(mf) || !isFinite(ef) {
		var zero T
		return zero, fmt.Errorf("%w: kepler solver input M=%v e=%v", ErrNumerical, mf, ef)
	}

	// e = 0: value is exactly M; the e·sin(M) term keeps ∂E/∂e.
	if ef == 0 {
		return ar.Add(meanAnom, ar.Mul(e, ar.Sin(meanAnom))), nil
	}

	// Markley's starter needs M in [-π, π].
	k := math.Round(mf / twoPi)
	m := meanAnom
	if k != 0 {
		m = ar.Sub(meanAnom, ar.Const(k*twoPi))
	}
	one := ar.Const(1)
	oneMinusE := ar.Sub(one, e)

	// Periastron: E = 0 exactly, with dE/dM = 1/(1-e).
	if ar.Float(m) == 0 {
		return unwrap(ar, ar.Div(m, oneMinusE), k), nil
	}

	const pi2 = math.Pi * math.Pi

	// eq. 20
	alpha := ar.Div(
		ar.Add(ar.Const(3*pi2),
			ar.Div(ar.Mul(ar.Const(1.6), ar.Sub(ar.Const(pi2), ar.Mul(ar.Const(math.Pi), abs(ar, m)))),
				ar.Add(one, e))),
		ar.Const(pi2-6))
	// eq. 5
	d := ar.Add(ar.Mul(ar.Const(3), oneMinusE), ar.Mul(alpha, e))
	// eq. 9
	q := ar.Sub(ar.Mul(ar.Mul(ar.Mul(ar.Const(2), alpha), d), oneMinusE), square(ar, m))
	// eq. 10
	r := ar.Add(
		ar.Mul(ar.Mul(ar.Mul(ar.Mul(ar.Const(3), alpha), d), ar.Sub(d, oneMinusE)), m),
		ar.Mul(m, square(ar, m)))
	// eq. 14
	w := ar.Cbrt(square(ar, ar.Add(abs(ar, r), ar.Sqrt(ar.Add(ar.Mul(q, square(ar, q)), square(ar, r))))))
	// eq. 15
	den := ar.Add(ar.Add(square(ar, q), ar.Mul(q, w)), square(ar, w))
	e1 := ar.Div(ar.Add(ar.Div(ar.Mul(ar.Mul(ar.Const(2), r), w), den), m), d)

	// eqs. 26, 27: derivatives of f(E) = E - e·sin(E) - M at the starter.
	f2 := ar.Mul(e, ar.Sin(e1))
	f3 := ar.Mul(e, ar.Cos(e1))
	f0 := ar.Sub(ar.Sub(e1, f2), m)
	f1 := ar.Sub(one, f3)
	half2 := ar.Div(f2, ar.Const(2))
	sixth3 := ar.Div(f3, ar.Const(6))

	// eq. 21
	d3 := ar.Neg(ar.Div(f0, ar.Sub(f1, ar.Div(ar.Mul(f0, f2), ar.Mul(ar.Const(2), f1)))))
	// eq. 22
	d4 := ar.Neg(ar.Div(f0, ar.Add(f1, ar.Mul(d3, ar.Add(half2, ar.Mul(d3, sixth3))))))
	// eqs. 23-25
	inner := ar.Add(sixth3, ar.Mul(d4, ar.Neg(ar.Div(f2, ar.Const(24)))))
	d5 := ar.Neg(ar.Div(f0, ar.Add(f1, ar.Mul(d4, ar.Add(half2, ar.Mul(d4, inner))))))

	// eq. 29
	return unwrap(ar, ar.Add(e1, d5), k), nil
}

// unwrap moves an anomaly solved in [-π, π] back onto branch k.
func unwrap[T any](ar Arith[T], x T, k float64) T {
	if k == 0 {
		return x
	}
	return ar.Add(x, ar.Const(k*twoPi))
}

// MeanAnomaly is the inverse of EccentricAnomaly: E - e·sin(E).
func MeanAnomaly[T any](ar Arith[T], ea, e T) T {
	return ar.Sub(ea, ar.Mul(e, ar.Sin(ea)))
}

// TrueAnomaly converts eccentric anomaly to true anomaly.
func TrueAnomaly[T any](ar Arith[T], ea, e T) T {
	one := ar.Const(1)
	half := ar.Div(ea, ar.Const(2))
	return ar.Mul(ar.Const(2), ar.Atan2(
		ar.Mul(ar.Sqrt(ar.Add(one, e)), ar.Sin(half)),
		ar.Mul(ar.Sqrt(ar.Sub(one, e)), ar.Cos(half))))
}

// EccentricFromTrue converts true anomaly back to eccentric anomaly.
func EccentricFromTrue[T any](ar Arith[T], nu, e T) T {
	one := ar.Const(1)
	half := ar.Div(nu, ar.Const(2))
	return ar.Mul(ar.Const(2), ar.Atan2(
		ar.Mul(ar.Sqrt(ar.Sub(one, e)), ar.Sin(half)),
		ar.Mul(ar.Sqrt(ar.Add(one, e)), ar.Cos(half))))
}
