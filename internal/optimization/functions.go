package optimization

import "math"

// Sphere returns the n-dimensional bowl f(x) = x·x with its minimum 0 at
// the origin.
func Sphere(dimension int) Function {
	return NewFunc("sphere", dimension, func(p Point) float64 {
		return p.Dot(p)
	})
}

// Rosenbrock returns the two-dimensional Rosenbrock valley
// f(x, y) = (1-x)² + 100(y-x²)², minimum 0 at (1, 1).
func Rosenbrock() Function {
	return NewFunc("rosenbrock", 2, func(p Point) float64 {
		x, y := p.At(0), p.At(1)
		return (1-x)*(1-x) + 100*(y-x*x)*(y-x*x)
	})
}

// Himmelblau returns Himmelblau's function
// f(x, y) = (x²+y-11)² + (x+y²-7)², with four global minima of value 0.
func Himmelblau() Function {
	return NewFunc("himmelblau", 2, func(p Point) float64 {
		x, y := p.At(0), p.At(1)
		a := x*x + y - 11
		b := x + y*y - 7
		return a*a + b*b
	})
}

// Polynomial builds an n-dimensional polynomial from per-variable
// coefficient rows in rising powers: row i holds the coefficients of
// x_i⁰, x_i¹, x_i², ... and the function value is the sum over all rows.
func Polynomial(coefficients [][]float64) (Function, error) {
	if len(coefficients) == 0 {
		return nil, NewError("at least one coefficient row required").
			WithOperation("Polynomial")
	}
	rows := make([][]float64, len(coefficients))
	for i, row := range coefficients {
		rows[i] = make([]float64, len(row))
		copy(rows[i], row)
	}
	return NewFunc("polynomial", len(rows), func(p Point) float64 {
		total := 0.0
		for i, row := range rows {
			for power, c := range row {
				total += c * math.Pow(p.At(i), float64(power))
			}
		}
		return total
	}), nil
}

// Linear builds the affine function f(x) = a·x + offset. It is the
// constraint shape the HTTP surface can express without a formula parser.
func Linear(coefficients []float64, offset float64) (Function, error) {
	if len(coefficients) == 0 {
		return nil, NewError("at least one coefficient required").
			WithOperation("Linear")
	}
	a := NewPoint(coefficients...)
	return NewFunc("linear", len(coefficients), func(p Point) float64 {
		return a.Dot(p) + offset
	}), nil
}

// Lookup resolves a named benchmark function. Sphere is the only entry that
// uses the dimension argument; the rest are fixed two-dimensional.
func Lookup(name string, dimension int) (Function, error) {
	switch name {
	case "sphere":
		if dimension < 1 {
			return nil, NewErrorf("sphere requires a positive dimension, got %d", dimension).
				WithOperation("Lookup")
		}
		return Sphere(dimension), nil
	case "rosenbrock":
		return Rosenbrock(), nil
	case "himmelblau":
		return Himmelblau(), nil
	default:
		return nil, NewErrorf("unknown function %q", name).WithOperation("Lookup")
	}
}
