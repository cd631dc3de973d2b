package kepler

import (
	"math"
	"testing"
)

func TestTraceSamples(t *testing.T) {
	el := mustNew(t, 3, 0.7, 0.9, 0.4, 2.2, 0.5, 1, 40)
	tr := NewTrace(el)

	var sols []Solution[float64]
	for sol := range tr.Samples(181) {
		sols = append(sols, sol)
	}
	if len(sols) != 181 {
		t.Fatalf("Samples(181) yielded %d solutions", len(sols))
	}

	first, last := sols[0], sols[len(sols)-1]
	if math.Abs(first.X-last.X) > 1e-9 || math.Abs(first.Y-last.Y) > 1e-9 {
		t.Errorf("curve not closed: first (%v, %v), last (%v, %v)", first.X, first.Y, last.X, last.Y)
	}

	step := 2 * math.Pi / 180
	for i := 1; i < len(sols); i++ {
		if d := sols[i].Nu - sols[i-1].Nu; math.Abs(d-step) > 1e-12 {
			t.Fatalf("sample %d: true anomaly step %v, want %v", i, d, step)
		}
	}
}

func TestTraceRestartable(t *testing.T) {
	tr := NewTrace(mustNew(t, 1, 0.2, 0, 0, 0, 0, 1, 100))
	seq := tr.Samples(10)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != 10 || b != 10 {
		t.Errorf("two sweeps yielded %d and %d samples, want 10 each", a, b)
	}

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("early break after %d samples", n)
	}
}

func TestTraceEdgeCounts(t *testing.T) {
	tr := NewTrace(mustNew(t, 1, 0, 0, 0, 0, 0, 1, 1000))

	xs, ys := tr.XY(0)
	if len(xs) != 0 || len(ys) != 0 {
		t.Errorf("XY(0) returned %d points", len(xs))
	}

	xs, ys = tr.XY(1)
	if len(xs) != 1 || math.Abs(ys[0]-1000) > 1e-9 {
		t.Errorf("XY(1) = (%v, %v), want one point at (0, 1000)", xs, ys)
	}
}

var _ Sampler[float64] = Trace[float64]{}
