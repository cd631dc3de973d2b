package kepler

import "fmt"

// Solution is an orbit evaluated at one epoch.
//
// X and Y are offsets of the secondary from the primary in right ascension
// and declination. VZ is positive when the secondary moves away from the
// observer, so (X, Y, Z) is deliberately not a right-handed frame.
type Solution[T any] struct {
	X, Y   T // offset [mas]
	VX, VY T // proper motion anomaly [mas/yr]
	VZ     T // radial velocity [m/s]
	AX, AY T // acceleration [mas/yr²]

	Nu T // true anomaly [rad]
	EA T // eccentric anomaly [rad]

	Elements Elements[T]
}

// Solve evaluates el at time t [days].
func Solve[T any](el Elements[T], t T) (Solution[T], error) {
	ar := el.ar
	ea, err := EccentricAnomaly(ar, el.MeanAnomalyAt(t), el.p.E)
	if err != nil {
		return Solution[T]{}, fmt.Errorf("solve at t=%v: %w", ar.Float(t), err)
	}
	nu := TrueAnomaly(ar, ea, el.p.E)
	r := ar.Mul(el.p.A, ar.Sub(ar.Const(1), ar.Mul(el.p.E, ar.Cos(ea))))
	return project(el, nu, ea, r), nil
}

// SolveTrueAnomaly evaluates el at true anomaly nu [rad].
func SolveTrueAnomaly[T any](el Elements[T], nu T) (Solution[T], error) {
	ar := el.ar
	if v := ar.Float(nu); !isFinite(v) {
		return Solution[T]{}, fmt.Errorf("%w: true anomaly %v", ErrNumerical, v)
	}
	r := ar.Div(el.semiLatus, ar.Add(ar.Const(1), ar.Mul(el.p.E, ar.Cos(nu))))
	return project(el, nu, EccentricFromTrue(ar, nu, el.p.E), r), nil
}

// project maps an orbital phase to sky-plane position, velocity and
// acceleration. r is the primary-secondary distance [AU].
func project[T any](el Elements[T], nu, ea, r T) Solution[T] {
	ar := el.ar
	theta := ar.Add(el.p.ArgPeri, nu)
	sint, cost := ar.Sin(theta), ar.Cos(theta)

	// Position [AU] then [mas]: 1 AU subtends plx mas.
	xAU := ar.Mul(r, ar.Add(ar.Mul(el.sinO, cost), ar.Mul(ar.Mul(el.cosO, el.cosi), sint)))
	yAU := ar.Mul(r, ar.Sub(ar.Mul(el.cosO, cost), ar.Mul(ar.Mul(el.sinO, el.cosi), sint)))
	x := ar.Mul(xAU, el.p.Plx)
	y := ar.Mul(yAU, el.p.Plx)

	// Velocity: time derivative of the above with ṙ and rθ̇ from the vis-viva
	// relations, which reduces to these phase terms.
	cw := ar.Add(cost, ar.Mul(el.p.E, el.cosw))
	sw := ar.Add(sint, ar.Mul(el.p.E, el.sinw))
	kx := ar.Mul(el.k0, el.p.Plx)
	vx := ar.Mul(kx, ar.Sub(ar.Mul(ar.Mul(el.cosO, el.cosi), cw), ar.Mul(el.sinO, sw)))
	vy := ar.Neg(ar.Mul(kx, ar.Add(ar.Mul(ar.Mul(el.sinO, el.cosi), cw), ar.Mul(el.cosO, sw))))
	vz := ar.Mul(ar.Mul(ar.Mul(el.k0, ar.Const(auPerYearToMS)), el.sini), cw)

	// Acceleration: second derivative, -GM·x/r³ per axis.
	g := ar.Neg(ar.Div(el.gm, ar.Mul(r, square(ar, r))))

	return Solution[T]{
		X:        x,
		Y:        y,
		VX:       vx,
		VY:       vy,
		VZ:       vz,
		AX:       ar.Mul(g, x),
		AY:       ar.Mul(g, y),
		Nu:       nu,
		EA:       ea,
		Elements: el,
	}
}

// RAOffset returns the offset in right ascension [mas].
func (s Solution[T]) RAOffset() T { return s.X }

// DecOffset returns the offset in declination [mas].
func (s Solution[T]) DecOffset() T { return s.Y }

// PositionAngle returns the position angle east of north [rad].
func (s Solution[T]) PositionAngle() T {
	return s.Elements.ar.Atan2(s.X, s.Y)
}

// ProjectedSeparation returns the projected separation [mas].
func (s Solution[T]) ProjectedSeparation() T {
	return hypot(s.Elements.ar, s.X, s.Y)
}

// ProperMotionAnomaly returns the magnitude of the sky-plane velocity [mas/yr].
func (s Solution[T]) ProperMotionAnomaly() T {
	return hypot(s.Elements.ar, s.VX, s.VY)
}

// RadialVelocity returns the line-of-sight velocity [m/s].
func (s Solution[T]) RadialVelocity() T { return s.VZ }

// Acceleration returns the magnitude of the sky-plane acceleration [mas/yr²].
func (s Solution[T]) Acceleration() T {
	return hypot(s.Elements.ar, s.AX, s.AY)
}

// Reflex returns the motion of the primary induced by a secondary of mass
// mSecondary, in the same units as the primary mass. Every vector quantity
// is scaled by -mSecondary/M.
func (s Solution[T]) Reflex(mSecondary T) Solution[T] {
	ar := s.Elements.ar
	f := ar.Neg(ar.Div(mSecondary, s.Elements.p.M))
	out := s
	out.X = ar.Mul(f, s.X)
	out.Y = ar.Mul(f, s.Y)
	out.VX = ar.Mul(f, s.VX)
	out.VY = ar.Mul(f, s.VY)
	out.VZ = ar.Mul(f, s.VZ)
	out.AX = ar.Mul(f, s.AX)
	out.AY = ar.Mul(f, s.AY)
	return out
}
