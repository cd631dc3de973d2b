package kepler

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestSolveCircularFaceOn(t *testing.T) {
	el := mustNew(t, 1, 0, 0, 0, 0, 0, 1, 1000)

	sol, err := Solve(el, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sep := sol.ProjectedSeparation(); math.Abs(sep-1000) > 1e-9 {
		t.Errorf("separation at t=0 = %v mas, want 1000", sep)
	}
	if pa := sol.PositionAngle(); math.Abs(pa) > 1e-12 {
		t.Errorf("position angle at t=0 = %v, want 0 (north)", pa)
	}
	// 2π AU/yr at 1 pc.
	if pm := sol.ProperMotionAnomaly(); math.Abs(pm-2*math.Pi*1000) > 1e-6 {
		t.Errorf("proper motion anomaly = %v mas/yr, want %v", pm, 2*math.Pi*1000)
	}
	// 4π² AU/yr² at 1 AU.
	if acc := sol.Acceleration(); math.Abs(acc-4*math.Pi*math.Pi*1000) > 1e-6 {
		t.Errorf("acceleration = %v mas/yr², want %v", acc, 4*math.Pi*math.Pi*1000)
	}
	if rv := sol.RadialVelocity(); math.Abs(rv) > 1e-9 {
		t.Errorf("face-on radial velocity = %v, want 0", rv)
	}

	// A quarter period later the secondary is due east.
	sol, err = Solve(el, el.Period()/4)
	if err != nil {
		t.Fatal(err)
	}
	if pa := sol.PositionAngle(); math.Abs(pa-math.Pi/2) > 1e-9 {
		t.Errorf("position angle at P/4 = %v, want π/2", pa)
	}
}

func TestSolvePeriAndApoastron(t *testing.T) {
	tests := []struct {
		name string
		e    float64
		peri float64
		apo  float64
	}{
		{name: "scenario e=0.5", e: 0.5, peri: 500, apo: 1500},
		{name: "near circular", e: 1e-4, peri: 999.9, apo: 1000.1},
		{name: "near parabolic", e: 0.995, peri: 5, apo: 1995},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := mustNew(t, 1, tt.e, 0, 0, 0, 0, 1, 1000)
			tp := el.Periastron(0)

			sol, err := Solve(el, tp)
			if err != nil {
				t.Fatal(err)
			}
			if sep := sol.ProjectedSeparation(); math.Abs(sep-tt.peri) > 1e-6 {
				t.Errorf("periastron separation = %v, want %v", sep, tt.peri)
			}

			sol, err = Solve(el, tp+el.Period()/2)
			if err != nil {
				t.Fatal(err)
			}
			if sep := sol.ProjectedSeparation(); math.Abs(sep-tt.apo) > 1e-6 {
				t.Errorf("apoastron separation = %v, want %v", sep, tt.apo)
			}
		})
	}
}

func TestSolveCircularEqualsMeanAnomaly(t *testing.T) {
	el := mustNew(t, 3, 0, 0.4, 1, 2, 0.37, 0.8, 25)
	for tm := -2000.0; tm < 5000; tm += 123.4 {
		sol, err := Solve(el, tm)
		if err != nil {
			t.Fatal(err)
		}
		if m := el.MeanAnomalyAt(tm); sol.EA != m {
			t.Errorf("t=%v: E = %v, want exactly M = %v", tm, sol.EA, m)
		}
	}
}

func TestSolveEntryPointsAgree(t *testing.T) {
	el := mustNew(t, 5.2, 0.63, 1.1, 2.3, 4.0, 0.81, 1.4, 33)

	for tm := 0.0; tm < el.Period(); tm += el.Period() / 37 {
		byTime, err := Solve(el, tm)
		if err != nil {
			t.Fatal(err)
		}
		byAnom, err := SolveTrueAnomaly(el, byTime.Nu)
		if err != nil {
			t.Fatal(err)
		}

		got := []float64{byAnom.X, byAnom.Y, byAnom.VX, byAnom.VY, byAnom.VZ, byAnom.AX, byAnom.AY}
		want := []float64{byTime.X, byTime.Y, byTime.VX, byTime.VY, byTime.VZ, byTime.AX, byTime.AY}
		for i := range got {
			if !scalar.EqualWithinAbsOrRel(got[i], want[i], 1e-9, 1e-9) {
				t.Errorf("t=%v component %d: by anomaly %v, by time %v", tm, i, got[i], want[i])
			}
		}
	}
}

func TestSolvePeriodic(t *testing.T) {
	el := mustNew(t, 2, 0.4, 0.7, 0.3, 1.9, 0.1, 1, 80)
	for _, tm := range []float64{0, 17, 300, 811} {
		a, err := Solve(el, tm)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Solve(el, tm+3*el.Period())
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbs(a.X, b.X, 1e-6) || !scalar.EqualWithinAbs(a.Y, b.Y, 1e-6) {
			t.Errorf("t=%v: (%v, %v) != (%v, %v) after 3 periods", tm, a.X, a.Y, b.X, b.Y)
		}
	}
}

func TestArgPeriHalfTurnFlipsSky(t *testing.T) {
	el := mustNew(t, 2, 0.4, 0.7, 0.3, 1.9, 0.1, 1, 80)
	flipped := mustNew(t, 2, 0.4, 0.7, 0.3+math.Pi, 1.9, 0.1, 1, 80)

	for _, tm := range []float64{0, 100, 400, 900} {
		a, err := Solve(el, tm)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Solve(flipped, tm)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbs(a.X, -b.X, 1e-9) || !scalar.EqualWithinAbs(a.Y, -b.Y, 1e-9) {
			t.Errorf("t=%v: (%v, %v) not mirrored by (%v, %v)", tm, a.X, a.Y, b.X, b.Y)
		}
		if !scalar.EqualWithinAbs(a.ProjectedSeparation(), b.ProjectedSeparation(), 1e-9) {
			t.Errorf("t=%v: separation changed under ω+π", tm)
		}
	}
}

func TestRadialVelocitySign(t *testing.T) {
	// Edge-on circular orbit; at t=0 the secondary sits on the ascending node
	// and is moving away from the observer.
	el := mustNew(t, 1, 0, math.Pi/2, 0, 0, 0, 1, 100)
	rv, err := RadialVelocity(el, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := 2 * math.Pi * auPerYearToMS
	if math.Abs(rv-want) > 1e-6 {
		t.Errorf("RadialVelocity() = %v m/s, want +%v", rv, want)
	}
}

func TestAccessorsMatchSolution(t *testing.T) {
	el := mustNew(t, 10, 0.3, 0.5, 0.2, 1.2, 0.6, 1.5, 20)
	tm := 1234.5
	sol, err := Solve(el, tm)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		fn   func(Elements[float64], float64) (float64, error)
		want float64
	}{
		{"RAOffset", RAOffset[float64], sol.RAOffset()},
		{"DecOffset", DecOffset[float64], sol.DecOffset()},
		{"PositionAngle", PositionAngle[float64], sol.PositionAngle()},
		{"ProjectedSeparation", ProjectedSeparation[float64], sol.ProjectedSeparation()},
		{"ProperMotionAnomaly", ProperMotionAnomaly[float64], sol.ProperMotionAnomaly()},
		{"RadialVelocity", RadialVelocity[float64], sol.RadialVelocity()},
		{"Acceleration", Acceleration[float64], sol.Acceleration()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(el, tm)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("%s(el, t) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestReflexMotion(t *testing.T) {
	el := mustNew(t, 5, 0.2, 1.0, 0.4, 0.9, 0.3, 1.0, 50)
	const mJup = 0.000954
	tm := 700.0

	sol, err := Solve(el, tm)
	if err != nil {
		t.Fatal(err)
	}

	rv, err := RadialVelocityPrimary(el, tm, mJup)
	if err != nil {
		t.Fatal(err)
	}
	if want := -mJup * sol.RadialVelocity(); math.Abs(rv-want) > 1e-12 {
		t.Errorf("RadialVelocityPrimary = %v, want %v", rv, want)
	}

	pm, err := ProperMotionAnomalyPrimary(el, tm, mJup)
	if err != nil {
		t.Fatal(err)
	}
	if want := mJup * sol.ProperMotionAnomaly(); math.Abs(pm-want) > 1e-12 {
		t.Errorf("ProperMotionAnomalyPrimary = %v, want %v", pm, want)
	}

	acc, err := AccelerationPrimary(el, tm, mJup)
	if err != nil {
		t.Fatal(err)
	}
	if want := mJup * sol.Acceleration(); math.Abs(acc-want) > 1e-12 {
		t.Errorf("AccelerationPrimary = %v, want %v", acc, want)
	}
}

func TestSolveNonFiniteTime(t *testing.T) {
	el := mustNew(t, 1, 0.1, 0, 0, 0, 0, 1, 100)
	if _, err := Solve(el, math.NaN()); !errors.Is(err, ErrNumerical) {
		t.Errorf("Solve(NaN) error = %v, want ErrNumerical", err)
	}
	if _, err := ProjectedSeparation(el, math.Inf(1)); !errors.Is(err, ErrNumerical) {
		t.Errorf("ProjectedSeparation(+Inf) error = %v, want ErrNumerical", err)
	}
}

func TestSolveTrueAnomalyNonFinite(t *testing.T) {
	el := mustNew(t, 1, 0.1, 0, 0, 0, 0, 1, 100)
	for _, nu := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := SolveTrueAnomaly(el, nu); !errors.Is(err, ErrNumerical) {
			t.Errorf("SolveTrueAnomaly(%v) error = %v, want ErrNumerical", nu, err)
		}
	}
}

func TestSolveBatch(t *testing.T) {
	el := mustNew(t, 2, 0.5, 0.3, 0.2, 0.1, 0.7, 1.3, 60)
	times := make([]float64, 1000)
	for i := range times {
		times[i] = float64(i) * 3.7
	}

	got, err := SolveBatch(context.Background(), el, times, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, tm := range times {
		want, _ := Solve(el, tm)
		if got[i].X != want.X || got[i].Y != want.Y {
			t.Fatalf("sample %d: batch (%v, %v), sequential (%v, %v)", i, got[i].X, got[i].Y, want.X, want.Y)
		}
	}

	times[500] = math.NaN()
	if _, err := SolveBatch(context.Background(), el, times, 3); !errors.Is(err, ErrNumerical) {
		t.Errorf("SolveBatch with NaN error = %v, want ErrNumerical", err)
	}
}

func TestSolveBatchCancelled(t *testing.T) {
	el := mustNew(t, 2, 0.5, 0.3, 0.2, 0.1, 0.7, 1.3, 60)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := SolveBatch(ctx, el, make([]float64, 10), 2); !errors.Is(err, context.Canceled) {
		t.Errorf("SolveBatch error = %v, want context.Canceled", err)
	}
}
