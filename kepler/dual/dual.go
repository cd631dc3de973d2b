// Package dual implements forward-mode automatic differentiation with dual
// numbers a + b·ε, ε² = 0, for use with the generic orbit kernel.
//
// Seed the input of interest with Var and read the derivative of any output
// from its Eps field.
package dual

import (
	"fmt"
	"math"
)

// Number is a dual number: Re is the value, Eps the derivative with respect
// to the seeded variable.
type Number struct {
	Re, Eps float64
}

// Var returns x seeded as the differentiation variable.
func Var(x float64) Number { return Number{Re: x, Eps: 1} }

// Const returns x with zero derivative.
func Const(x float64) Number { return Number{Re: x} }

func (n Number) String() string {
	return fmt.Sprintf("%g%+gε", n.Re, n.Eps)
}

// Arith implements kepler.Arith[Number].
type Arith struct{}

func (Arith) Const(v float64) Number { return Const(v) }
func (Arith) Float(x Number) float64 { return x.Re }

func (Arith) Add(x, y Number) Number { return Number{x.Re + y.Re, x.Eps + y.Eps} }
func (Arith) Sub(x, y Number) Number { return Number{x.Re - y.Re, x.Eps - y.Eps} }
func (Arith) Neg(x Number) Number    { return Number{-x.Re, -x.Eps} }

func (Arith) Mul(x, y Number) Number {
	return Number{x.Re * y.Re, x.Eps*y.Re + x.Re*y.Eps}
}

func (Arith) Div(x, y Number) Number {
	return Number{x.Re / y.Re, (x.Eps*y.Re - x.Re*y.Eps) / (y.Re * y.Re)}
}

func (Arith) Sin(x Number) Number {
	return Number{math.Sin(x.Re), math.Cos(x.Re) * x.Eps}
}

func (Arith) Cos(x Number) Number {
	return Number{math.Cos(x.Re), -math.Sin(x.Re) * x.Eps}
}

func (Arith) Sqrt(x Number) Number {
	s := math.Sqrt(x.Re)
	if x.Eps == 0 {
		return Number{Re: s}
	}
	return Number{s, x.Eps / (2 * s)}
}

func (Arith) Cbrt(x Number) Number {
	c := math.Cbrt(x.Re)
	if x.Eps == 0 {
		return Number{Re: c}
	}
	return Number{c, x.Eps / (3 * c * c)}
}

func (Arith) Atan2(y, x Number) Number {
	den := x.Re*x.Re + y.Re*y.Re
	v := math.Atan2(y.Re, x.Re)
	if den == 0 {
		return Number{Re: v}
	}
	return Number{v, (x.Re*y.Eps - y.Re*x.Eps) / den}
}
