// Package symbolic builds expression trees through the generic orbit kernel.
//
// Each variable carries a trace value. Branches inside the kernel (range
// reduction, absolute values) are decided on trace values, so a resulting
// expression is exact for any binding that takes the same branches as the
// trace point. Constant subexpressions are folded as they are built.
package symbolic

import (
	"fmt"
	"math"
	"strconv"
)

type op int

const (
	opConst op = iota
	opVar
	opAdd
	opSub
	opMul
	opDiv
	opNeg
	opSin
	opCos
	opSqrt
	opCbrt
	opAtan2
)

var opNames = map[op]string{
	opAdd:   "+",
	opSub:   "-",
	opMul:   "*",
	opDiv:   "/",
	opSin:   "sin",
	opCos:   "cos",
	opSqrt:  "sqrt",
	opCbrt:  "cbrt",
	opAtan2: "atan2",
}

type node struct {
	op    op
	name  string
	value float64 // constant value, or trace value of the subtree
	args  []*node
}

// Expr is an immutable expression.
type Expr struct {
	n *node
}

// Var returns a named variable with the given trace value.
func Var(name string, trace float64) Expr {
	return Expr{&node{op: opVar, name: name, value: trace}}
}

// Const returns a constant expression.
func Const(v float64) Expr {
	return Expr{&node{op: opConst, value: v}}
}

// Value returns the expression evaluated at the trace values of its variables.
func (x Expr) Value() float64 {
	if x.n == nil {
		return 0
	}
	return x.n.value
}

// IsConst reports whether x contains no variables.
func (x Expr) IsConst() bool {
	return x.n == nil || x.n.op == opConst
}

// Vars returns the distinct variable names in x in first-seen order.
func (x Expr) Vars() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.op == opVar && !seen[n.name] {
			seen[n.name] = true
			names = append(names, n.name)
		}
		for _, a := range n.args {
			walk(a)
		}
	}
	walk(x.n)
	return names
}

// Eval evaluates x with the given variable bindings.
func (x Expr) Eval(env map[string]float64) (float64, error) {
	if x.n == nil {
		return 0, nil
	}
	return eval(x.n, env)
}

func eval(n *node, env map[string]float64) (float64, error) {
	switch n.op {
	case opConst:
		return n.value, nil
	case opVar:
		v, ok := env[n.name]
		if !ok {
			return 0, fmt.Errorf("symbolic: unbound variable %q", n.name)
		}
		return v, nil
	}

	vals := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := eval(a, env)
		if err != nil {
			return 0, err
		}
		vals[i] = v
	}
	return apply(n.op, vals...), nil
}

func apply(o op, v ...float64) float64 {
	switch o {
	case opAdd:
		return v[0] + v[1]
	case opSub:
		return v[0] - v[1]
	case opMul:
		return v[0] * v[1]
	case opDiv:
		return v[0] / v[1]
	case opNeg:
		return -v[0]
	case opSin:
		return math.Sin(v[0])
	case opCos:
		return math.Cos(v[0])
	case opSqrt:
		return math.Sqrt(v[0])
	case opCbrt:
		return math.Cbrt(v[0])
	case opAtan2:
		return math.Atan2(v[0], v[1])
	}
	return math.NaN()
}

// String renders x in infix form.
func (x Expr) String() string {
	if x.n == nil {
		return "0"
	}
	return format(x.n)
}

func format(n *node) string {
	switch n.op {
	case opConst:
		return strconv.FormatFloat(n.value, 'g', -1, 64)
	case opVar:
		return n.name
	case opNeg:
		return "-" + format(n.args[0])
	case opAdd, opSub, opMul, opDiv:
		return "(" + format(n.args[0]) + " " + opNames[n.op] + " " + format(n.args[1]) + ")"
	case opAtan2:
		return "atan2(" + format(n.args[0]) + ", " + format(n.args[1]) + ")"
	}
	return opNames[n.op] + "(" + format(n.args[0]) + ")"
}

func build(o op, args ...Expr) Expr {
	nodes := make([]*node, len(args))
	vals := make([]float64, len(args))
	folded := true
	for i, a := range args {
		if a.n == nil {
			a = Const(0)
		}
		nodes[i] = a.n
		vals[i] = a.n.value
		if a.n.op != opConst {
			folded = false
		}
	}
	v := apply(o, vals...)
	if folded {
		return Const(v)
	}
	return Expr{&node{op: o, value: v, args: nodes}}
}

func isConst(x Expr, v float64) bool {
	return x.n != nil && x.n.op == opConst && x.n.value == v
}
