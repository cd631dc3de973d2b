package symbolic

import (
	"math"
	"strings"
	"testing"

	"github.com/litescript/ls-orbits/kepler"
)

func TestInclinationExpression(t *testing.T) {
	const trace = 0.6
	el, err := kepler.NewElements[Expr](Arith{}, kepler.Params[Expr]{
		A: Const(3), E: Const(0.25), I: Var("i", trace), ArgPeri: Const(0.3),
		Node: Const(1.0), Tau: Const(0.4), M: Const(1), Plx: Const(30),
	})
	if err != nil {
		t.Fatalf("NewElements() error: %v", err)
	}

	sol, err := kepler.Solve(el, Const(500))
	if err != nil {
		t.Fatal(err)
	}
	if !sol.EA.IsConst() {
		t.Errorf("eccentric anomaly depends on %v, want a constant", sol.EA.Vars())
	}
	if got := sol.X.Vars(); len(got) != 1 || got[0] != "i" {
		t.Fatalf("X variables = %v, want [i]", got)
	}

	for _, inc := range []float64{0.1, 0.6, 1.2, 2.5} {
		plain, err := kepler.New(3, 0.25, inc, 0.3, 1.0, 0.4, 1, 30)
		if err != nil {
			t.Fatal(err)
		}
		want, err := kepler.Solve(plain, 500.0)
		if err != nil {
			t.Fatal(err)
		}

		env := map[string]float64{"i": inc}
		for _, c := range []struct {
			name string
			expr Expr
			want float64
		}{
			{"X", sol.X, want.X},
			{"Y", sol.Y, want.Y},
			{"VZ", sol.VZ, want.VZ},
		} {
			got, err := c.expr.Eval(env)
			if err != nil {
				t.Fatalf("%s.Eval() error: %v", c.name, err)
			}
			if math.Abs(got-c.want) > 1e-9*math.Max(1, math.Abs(c.want)) {
				t.Errorf("i=%v: %s = %v, want %v", inc, c.name, got, c.want)
			}
		}
	}

	plain, _ := kepler.New(3, 0.25, trace, 0.3, 1.0, 0.4, 1, 30)
	want, _ := kepler.Solve(plain, 500.0)
	if math.Abs(sol.X.Value()-want.X) > 1e-9 {
		t.Errorf("X trace value = %v, want %v", sol.X.Value(), want.X)
	}
}

func TestEvalUnbound(t *testing.T) {
	ar := Arith{}
	x := ar.Add(Var("a", 1), ar.Mul(Var("b", 2), Const(3)))
	if _, err := x.Eval(map[string]float64{"a": 1}); err == nil || !strings.Contains(err.Error(), `"b"`) {
		t.Errorf("Eval() error = %v, want unbound variable b", err)
	}
	got, err := x.Eval(map[string]float64{"a": 1, "b": 4})
	if err != nil {
		t.Fatal(err)
	}
	if got != 13 {
		t.Errorf("Eval() = %v, want 13", got)
	}
	if x.Value() != 7 {
		t.Errorf("Value() = %v, want 7", x.Value())
	}
}

func TestSimplification(t *testing.T) {
	ar := Arith{}
	x := Var("x", 0.5)

	tests := []struct {
		name string
		got  Expr
		want string
	}{
		{"fold", ar.Add(Const(2), ar.Mul(Const(3), Const(4))), "14"},
		{"x+0", ar.Add(x, Const(0)), "x"},
		{"0+x", ar.Add(Const(0), x), "x"},
		{"x-0", ar.Sub(x, Const(0)), "x"},
		{"x*0", ar.Mul(x, Const(0)), "0"},
		{"1*x", ar.Mul(Const(1), x), "x"},
		{"x/1", ar.Div(x, Const(1)), "x"},
		{"sin", ar.Sin(ar.Mul(Const(2), x)), "sin((2 * x))"},
		{"atan2", ar.Atan2(x, Const(1)), "atan2(x, 1)"},
		{"neg", ar.Neg(x), "-x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := tt.got.String(); s != tt.want {
				t.Errorf("String() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestZeroExpr(t *testing.T) {
	var x Expr
	if !x.IsConst() || x.Value() != 0 || x.String() != "0" {
		t.Errorf("zero Expr = %v (const %v), want constant 0", x, x.IsConst())
	}
	if v, err := x.Eval(nil); err != nil || v != 0 {
		t.Errorf("zero Expr Eval() = %v, %v", v, err)
	}
}
