package symbolic

// Arith implements kepler.Arith[Expr].
type Arith struct{}

func (Arith) Const(v float64) Expr { return Const(v) }
func (Arith) Float(x Expr) float64 { return x.Value() }

func (Arith) Add(x, y Expr) Expr {
	switch {
	case isConst(x, 0):
		return y
	case isConst(y, 0):
		return x
	}
	return build(opAdd, x, y)
}

func (Arith) Sub(x, y Expr) Expr {
	if isConst(y, 0) {
		return x
	}
	return build(opSub, x, y)
}

func (Arith) Mul(x, y Expr) Expr {
	switch {
	case isConst(x, 0) || isConst(y, 0):
		return Const(0)
	case isConst(x, 1):
		return y
	case isConst(y, 1):
		return x
	}
	return build(opMul, x, y)
}

func (Arith) Div(x, y Expr) Expr {
	if isConst(y, 1) {
		return x
	}
	return build(opDiv, x, y)
}

func (Arith) Neg(x Expr) Expr      { return build(opNeg, x) }
func (Arith) Sin(x Expr) Expr      { return build(opSin, x) }
func (Arith) Cos(x Expr) Expr      { return build(opCos, x) }
func (Arith) Sqrt(x Expr) Expr     { return build(opSqrt, x) }
func (Arith) Cbrt(x Expr) Expr     { return build(opCbrt, x) }
func (Arith) Atan2(y, x Expr) Expr { return build(opAtan2, y, x) }
