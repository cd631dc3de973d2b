package kepler

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sampler produces a restartable sequence of evaluated orbit states, as
// consumed by plotting front-ends.
type Sampler[T any] interface {
	Samples(n int) iter.Seq[Solution[T]]
}

// Trace samples one full orbit in equal steps of true anomaly, which gives a
// smooth curve regardless of eccentricity.
type Trace[T any] struct {
	el Elements[T]
}

// NewTrace returns a Trace over el.
func NewTrace[T any](el Elements[T]) Trace[T] {
	return Trace[T]{el: el}
}

// Elements returns the traced elements.
func (tr Trace[T]) Elements() Elements[T] { return tr.el }

// Samples yields n solutions with ν spanning [0, 2π] inclusive, so the last
// sample closes the curve onto the first. Each call starts a fresh sweep.
func (tr Trace[T]) Samples(n int) iter.Seq[Solution[T]] {
	return func(yield func(Solution[T]) bool) {
		for _, nu := range trueAnomalies(n) {
			// ν comes from a finite span, so the solve cannot fail.
			sol, _ := SolveTrueAnomaly(tr.el, tr.el.ar.Const(nu))
			if !yield(sol) {
				return
			}
		}
	}
}

// XY returns the sky-plane offsets of n samples as float64 slices [mas].
func (tr Trace[T]) XY(n int) (xs, ys []float64) {
	ar := tr.el.ar
	xs = make([]float64, 0, n)
	ys = make([]float64, 0, n)
	for sol := range tr.Samples(n) {
		xs = append(xs, ar.Float(sol.X))
		ys = append(ys, ar.Float(sol.Y))
	}
	return xs, ys
}

func trueAnomalies(n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, 2*math.Pi)
}
