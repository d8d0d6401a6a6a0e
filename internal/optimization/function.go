package optimization

// Function is the objective contract consumed by the optimizers: an opaque
// callable from an N-dimensional point to a scalar, with a declared
// dimension. Evaluation is total; invalid points are a programmer error and
// panic at the Point level before Evaluate is reached.
type Function interface {
	// Dimension returns the number of variables the function expects.
	Dimension() int

	// Evaluate computes the function value at the given point.
	Evaluate(Point) float64
}

// Named is implemented by functions that carry a human-readable name,
// used for diagnostics and the HTTP surface.
type Named interface {
	Name() string
}

type objective struct {
	name string
	dim  int
	eval func(Point) float64
}

// NewFunc wraps a plain evaluation closure into a Function.
// It panics on a non-positive dimension or a nil closure.
func NewFunc(name string, dimension int, eval func(Point) float64) Function {
	checkDimension(dimension)
	if eval == nil {
		panic("optimization: NewFunc requires a non-nil evaluation closure")
	}
	return &objective{name: name, dim: dimension, eval: eval}
}

func (o *objective) Dimension() int           { return o.dim }
func (o *objective) Evaluate(p Point) float64 { return o.eval(p) }
func (o *objective) Name() string             { return o.name }

// FuncName returns the name of fn when it carries one, or fallback otherwise.
func FuncName(fn Function, fallback string) string {
	if named, ok := fn.(Named); ok && named.Name() != "" {
		return named.Name()
	}
	return fallback
}

// Sum combines functions of equal dimension into their pointwise sum.
// The penalty-method wrapper uses it to build penalized objectives.
func Sum(fns ...Function) (Function, error) {
	if len(fns) == 0 {
		return nil, NewError("at least one function required").WithOperation("Sum")
	}
	dim := fns[0].Dimension()
	for _, fn := range fns[1:] {
		if fn.Dimension() != dim {
			return nil, NewErrorf("dimension mismatch: %d != %d", fn.Dimension(), dim).
				WithOperation("Sum")
		}
	}
	terms := make([]Function, len(fns))
	copy(terms, fns)
	return NewFunc("sum", dim, func(p Point) float64 {
		total := 0.0
		for _, fn := range terms {
			total += fn.Evaluate(p)
		}
		return total
	}), nil
}

// Scale multiplies a function by a constant weight, producing a new
// Function of the same dimension.
func Scale(weight float64, fn Function) Function {
	if fn == nil {
		panic("optimization: Scale requires a non-nil function")
	}
	return NewFunc(FuncName(fn, "scaled"), fn.Dimension(), func(p Point) float64 {
		return weight * fn.Evaluate(p)
	})
}
