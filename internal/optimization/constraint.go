package optimization

import "math"

// constraintKind is the closed set of penalty shapes. Only equality and
// inequality constraints exist; there is no open subclassing.
type constraintKind int

const (
	kindEquality constraintKind = iota
	kindInequality
)

// Constraint couples a constraint function with its derived penalty.
// An equality constraint demands f(x) = 0 and is penalized by |f(x)|;
// an inequality constraint demands f(x) ≤ 0 and is penalized by max(0, f(x)).
type Constraint struct {
	kind constraintKind
	fn   Function
}

// Equality creates the constraint f(x) = 0.
// It panics on a nil function, like the Point and Function constructors.
func Equality(fn Function) Constraint {
	if fn == nil {
		panic("optimization: Equality requires a non-nil function")
	}
	return Constraint{kind: kindEquality, fn: fn}
}

// Inequality creates the constraint f(x) ≤ 0.
func Inequality(fn Function) Constraint {
	if fn == nil {
		panic("optimization: Inequality requires a non-nil function")
	}
	return Constraint{kind: kindInequality, fn: fn}
}

// Function returns the underlying constraint function.
func (c Constraint) Function() Function {
	return c.fn
}

// ErrorFunc returns the penalty function derived from the constraint:
// |f(x)| for an equality, max(0, f(x)) for an inequality.
func (c Constraint) ErrorFunc() Function {
	fn := c.fn
	switch c.kind {
	case kindEquality:
		return NewFunc("equality-penalty", fn.Dimension(), func(p Point) float64 {
			return math.Abs(fn.Evaluate(p))
		})
	default:
		return NewFunc("inequality-penalty", fn.Dimension(), func(p Point) float64 {
			return math.Max(0, fn.Evaluate(p))
		})
	}
}

// Error returns the penalty value at the given point.
func (c Constraint) Error(p Point) float64 {
	return c.ErrorFunc().Evaluate(p)
}

// Check reports whether the constraint holds at the given point,
// that is, whether the penalty is exactly zero.
func (c Constraint) Check(p Point) bool {
	return c.Error(p) == 0
}
