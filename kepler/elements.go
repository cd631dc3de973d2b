package kepler

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

const (
	// DaysPerYear is the Julian year used for all period and rate conversions.
	DaysPerYear = 365.25

	// AU is the astronomical unit in meters.
	AU = 149597870700.0

	// auPerYearToMS converts AU/yr to m/s.
	auPerYearToMS = AU / (DaysPerYear * 86400)

	twoPi = 2 * math.Pi

	// gmSun is GM☉ in AU³/yr².
	gmSun = 4 * math.Pi * math.Pi
)

// Params holds the eight raw orbital parameters.
type Params[T any] struct {
	A       T // semi-major axis [AU]
	E       T // eccentricity [0, 1)
	I       T // inclination [rad]
	ArgPeri T // argument of periastron ω [rad]
	Node    T // longitude of the ascending node Ω [rad]
	Tau     T // epoch of periastron passage as a fraction of the orbit
	M       T // mass of the primary [M☉]
	Plx     T // parallax [mas]
}

// Elements is an immutable, validated set of Keplerian elements together
// with the constants derived from them.
//
// The zero value is not usable; construct with New, NewDeg or NewElements.
type Elements[T any] struct {
	ar Arith[T]
	p  Params[T]

	periodYr   T // [yr]
	period     T // [days]
	meanMotion T // [rad/yr]
	semiLatus  T // p = a(1-e²) [AU]
	distance   T // [pc]
	gm         T // [AU³/yr²]
	k0         T // sqrt(GM/p) [AU/yr]

	sini, cosi T
	sinw, cosw T
	sinO, cosO T

	sqrtOnePlusE, sqrtOneMinusE T
}

// New constructs float64 elements. Angles are in radians.
func New(a, e, i, argPeri, node, tau, m, plx float64) (Elements[float64], error) {
	return NewElements[float64](Float{}, Params[float64]{
		A: a, E: e, I: i, ArgPeri: argPeri, Node: node, Tau: tau, M: m, Plx: plx,
	})
}

// NewDeg is like New but takes i, ω and Ω in degrees.
func NewDeg(a, e, iDeg, argPeriDeg, nodeDeg, tau, m, plx float64) (Elements[float64], error) {
	return New(a, e,
		unit.AngleFromDeg(iDeg).Rad(),
		unit.AngleFromDeg(argPeriDeg).Rad(),
		unit.AngleFromDeg(nodeDeg).Rad(),
		tau, m, plx)
}

// NewElements validates p and precomputes the derived constants using ar.
func NewElements[T any](ar Arith[T], p Params[T]) (Elements[T], error) {
	if err := validate(ar, p); err != nil {
		return Elements[T]{}, err
	}

	one := ar.Const(1)
	a3 := ar.Mul(p.A, square(ar, p.A))
	periodYr := ar.Sqrt(ar.Div(a3, p.M))
	semiLatus := ar.Mul(p.A, ar.Sub(one, square(ar, p.E)))
	gm := ar.Mul(ar.Const(gmSun), p.M)

	return Elements[T]{
		ar:            ar,
		p:             p,
		periodYr:      periodYr,
		period:        ar.Mul(periodYr, ar.Const(DaysPerYear)),
		meanMotion:    ar.Div(ar.Const(twoPi), periodYr),
		semiLatus:     semiLatus,
		distance:      ar.Div(ar.Const(1000), p.Plx),
		gm:            gm,
		k0:            ar.Sqrt(ar.Div(gm, semiLatus)),
		sini:          ar.Sin(p.I),
		cosi:          ar.Cos(p.I),
		sinw:          ar.Sin(p.ArgPeri),
		cosw:          ar.Cos(p.ArgPeri),
		sinO:          ar.Sin(p.Node),
		cosO:          ar.Cos(p.Node),
		sqrtOnePlusE:  ar.Sqrt(ar.Add(one, p.E)),
		sqrtOneMinusE: ar.Sqrt(ar.Sub(one, p.E)),
	}, nil
}

func validate[T any](ar Arith[T], p Params[T]) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"a", ar.Float(p.A)},
		{"e", ar.Float(p.E)},
		{"i", ar.Float(p.I)},
		{"ω", ar.Float(p.ArgPeri)},
		{"Ω", ar.Float(p.Node)},
		{"τ", ar.Float(p.Tau)},
		{"M", ar.Float(p.M)},
		{"plx", ar.Float(p.Plx)},
	}
	for _, f := range fields {
		if !isFinite(f.v) {
			return fmt.Errorf("%w: %s is not finite (%v)", ErrInvalidElements, f.name, f.v)
		}
	}

	e := ar.Float(p.E)
	switch {
	case e < 0 || e >= 1:
		return fmt.Errorf("%w: eccentricity %v outside [0, 1)", ErrInvalidElements, e)
	case ar.Float(p.A) <= 0:
		return fmt.Errorf("%w: semi-major axis %v must be positive", ErrInvalidElements, ar.Float(p.A))
	case ar.Float(p.M) <= 0:
		return fmt.Errorf("%w: primary mass %v must be positive", ErrInvalidElements, ar.Float(p.M))
	case ar.Float(p.Plx) <= 0:
		return fmt.Errorf("%w: parallax %v must be positive", ErrInvalidElements, ar.Float(p.Plx))
	}
	return nil
}

// Arith returns the arithmetic the elements were built with.
func (el Elements[T]) Arith() Arith[T] { return el.ar }

// Params returns the raw parameters.
func (el Elements[T]) Params() Params[T] { return el.p }

// Period returns the orbital period [days].
func (el Elements[T]) Period() T { return el.period }

// Distance returns the distance to the system [pc].
func (el Elements[T]) Distance() T { return el.distance }

// MeanMotion returns the mean motion [rad/yr].
func (el Elements[T]) MeanMotion() T { return el.meanMotion }

// SemiLatusRectum returns a(1-e²) [AU].
func (el Elements[T]) SemiLatusRectum() T { return el.semiLatus }

// PeriastronEpoch returns τ·P, the periastron passage referenced to t = 0 [days].
func (el Elements[T]) PeriastronEpoch() T {
	return el.ar.Mul(el.p.Tau, el.period)
}

// Periastron returns the epoch of the most recent periastron passage at or
// before ref [days].
func (el Elements[T]) Periastron(ref T) T {
	ar := el.ar
	tp := el.PeriastronEpoch()
	k := math.Floor(ar.Float(ar.Sub(ref, tp)) / ar.Float(el.period))
	return ar.Add(tp, ar.Mul(ar.Const(k), el.period))
}

// MeanAnomalyAt returns the mean anomaly at time t [days], wrapped into [0, 2π).
func (el Elements[T]) MeanAnomalyAt(t T) T {
	ar := el.ar
	dt := ar.Sub(t, el.PeriastronEpoch())
	m := ar.Mul(el.meanMotion, ar.Div(dt, ar.Const(DaysPerYear)))
	k := math.Floor(ar.Float(m) / twoPi)
	if k == 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return m
	}
	return ar.Sub(m, ar.Const(k*twoPi))
}

// String formats the elements with angles in degrees.
func (el Elements[T]) String() string {
	ar := el.ar
	return fmt.Sprintf("a=%.4g AU e=%.4g i=%.2f° ω=%.2f° Ω=%.2f° τ=%.4g M=%.4g M☉ plx=%.4g mas",
		ar.Float(el.p.A), ar.Float(el.p.E),
		unit.Angle(ar.Float(el.p.I)).Deg(),
		unit.Angle(ar.Float(el.p.ArgPeri)).Deg(),
		unit.Angle(ar.Float(el.p.Node)).Deg(),
		ar.Float(el.p.Tau), ar.Float(el.p.M), ar.Float(el.p.Plx))
}
