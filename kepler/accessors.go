package kepler

// The functions below each run a full solve. To read several quantities at
// the same epoch, call Solve once and use the Solution methods instead.

// RAOffset returns the offset in right ascension at time t [mas].
func RAOffset[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].RAOffset)
}

// DecOffset returns the offset in declination at time t [mas].
func DecOffset[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].DecOffset)
}

// PositionAngle returns the position angle at time t [rad].
func PositionAngle[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].PositionAngle)
}

// ProjectedSeparation returns the projected separation at time t [mas].
func ProjectedSeparation[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].ProjectedSeparation)
}

// ProperMotionAnomaly returns the secondary's proper motion anomaly at time t [mas/yr].
func ProperMotionAnomaly[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].ProperMotionAnomaly)
}

// RadialVelocity returns the secondary's radial velocity at time t [m/s].
func RadialVelocity[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].RadialVelocity)
}

// Acceleration returns the secondary's acceleration at time t [mas/yr²].
func Acceleration[T any](el Elements[T], t T) (T, error) {
	return quantity(el, t, Solution[T].Acceleration)
}

// RadialVelocityPrimary returns the primary's radial velocity at time t
// induced by a secondary of mass mSecondary [m/s].
func RadialVelocityPrimary[T any](el Elements[T], t, mSecondary T) (T, error) {
	return reflexQuantity(el, t, mSecondary, Solution[T].RadialVelocity)
}

// ProperMotionAnomalyPrimary returns the primary's proper motion anomaly at
// time t induced by a secondary of mass mSecondary [mas/yr].
func ProperMotionAnomalyPrimary[T any](el Elements[T], t, mSecondary T) (T, error) {
	return reflexQuantity(el, t, mSecondary, Solution[T].ProperMotionAnomaly)
}

// AccelerationPrimary returns the primary's acceleration at time t induced by
// a secondary of mass mSecondary [mas/yr²].
func AccelerationPrimary[T any](el Elements[T], t, mSecondary T) (T, error) {
	return reflexQuantity(el, t, mSecondary, Solution[T].Acceleration)
}

func quantity[T any](el Elements[T], t T, f func(Solution[T]) T) (T, error) {
	sol, err := Solve(el, t)
	if err != nil {
		var zero T
		return zero, err
	}
	return f(sol), nil
}

func reflexQuantity[T any](el Elements[T], t, mSecondary T, f func(Solution[T]) T) (T, error) {
	sol, err := Solve(el, t)
	if err != nil {
		var zero T
		return zero, err
	}
	return f(sol.Reflex(mSecondary)), nil
}
