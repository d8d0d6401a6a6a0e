package optimization

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Point is an immutable fixed-dimension vector. Every operation returns a
// fresh Point, so values held by a simplex snapshot are never aliased by
// later algorithm steps.
//
// Dimension mismatches and invalid construction arguments panic, following
// the gonum convention for programmer errors. The optimizer entry points
// (Simplex, NelderMead, ConstrainedNelderMead) validate their inputs and
// return errors instead.
type Point struct {
	values []float64
}

// NewPoint creates a point from the given coordinates.
// It panics when no coordinates are given.
func NewPoint(values ...float64) Point {
	if len(values) == 0 {
		panic("optimization: NewPoint requires at least one coordinate")
	}
	vs := make([]float64, len(values))
	copy(vs, values)
	return Point{values: vs}
}

// Zero returns the point (0, 0, ..., 0) of the given dimension.
func Zero(dimension int) Point {
	checkDimension(dimension)
	return Point{values: make([]float64, dimension)}
}

// Ones returns the point (1, 1, ..., 1) of the given dimension.
func Ones(dimension int) Point {
	checkDimension(dimension)
	vs := make([]float64, dimension)
	for i := range vs {
		vs[i] = 1
	}
	return Point{values: vs}
}

// Unit returns the one-hot unit vector along the given axis.
// Axis must lie in [0, dimension).
func Unit(dimension, axis int) Point {
	checkDimension(dimension)
	if axis < 0 || axis >= dimension {
		panic(fmt.Sprintf("optimization: axis must be in [0, %d), got %d", dimension, axis))
	}
	vs := make([]float64, dimension)
	vs[axis] = 1
	return Point{values: vs}
}

func checkDimension(dimension int) {
	if dimension < 1 {
		panic(fmt.Sprintf("optimization: dimension must be > 0, got %d", dimension))
	}
}

// Dimension returns the number of coordinates.
func (p Point) Dimension() int {
	return len(p.values)
}

// At returns the i-th coordinate.
func (p Point) At(i int) float64 {
	return p.values[i]
}

// Values returns a copy of the coordinates.
func (p Point) Values() []float64 {
	vs := make([]float64, len(p.values))
	copy(vs, p.values)
	return vs
}

// Add returns p + q elementwise.
func (p Point) Add(q Point) Point {
	p.checkLen(q)
	vs := make([]float64, len(p.values))
	copy(vs, p.values)
	floats.Add(vs, q.values)
	return Point{values: vs}
}

// Sub returns p - q elementwise.
func (p Point) Sub(q Point) Point {
	p.checkLen(q)
	vs := make([]float64, len(p.values))
	copy(vs, p.values)
	floats.Sub(vs, q.values)
	return Point{values: vs}
}

// Scale returns c * p.
func (p Point) Scale(c float64) Point {
	vs := make([]float64, len(p.values))
	floats.ScaleTo(vs, c, p.values)
	return Point{values: vs}
}

// Div returns p / c, implemented as multiplication by 1/c.
func (p Point) Div(c float64) Point {
	return p.Scale(1 / c)
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	p.checkLen(q)
	return floats.Dot(p.values, q.values)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	p.checkLen(q)
	return floats.Distance(p.values, q.values, 2)
}

// Equal reports whether p and q have the same dimension and coordinates.
func (p Point) Equal(q Point) bool {
	if len(p.values) != len(q.values) {
		return false
	}
	return floats.Equal(p.values, q.values)
}

// ScalarPower is the even-power half of the legacy repeated
// self-multiplication: starting from the scalar 1, multiplying by p an even
// number of times collapses the running result back to a scalar on each
// second step. Power 0 yields 1, power 2 the squared norm p·p, power 4 its
// square, and so on. Odd powers yield a Point instead; use RepeatedScale.
func (p Point) ScalarPower(power int) float64 {
	if power < 0 {
		panic(fmt.Sprintf("optimization: power must be >= 0, got %d", power))
	}
	if power%2 != 0 {
		panic(fmt.Sprintf("optimization: odd power %d yields a Point, use RepeatedScale", power))
	}
	result := 1.0
	for i := 0; i < power/2; i++ {
		result *= p.Dot(p)
	}
	return result
}

// RepeatedScale is the odd-power half of the legacy repeated
// self-multiplication: power 1 yields p itself, power 3 yields (p·p)·p,
// power 5 yields (p·p)²·p, and so on. Even powers collapse to a scalar;
// use ScalarPower.
func (p Point) RepeatedScale(power int) Point {
	if power < 1 || power%2 == 0 {
		panic(fmt.Sprintf("optimization: even power %d yields a scalar, use ScalarPower", power))
	}
	return p.Scale(p.ScalarPower(power - 1))
}

// String renders the point as a coordinate tuple.
func (p Point) String() string {
	parts := make([]string, len(p.values))
	for i, v := range p.values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (p Point) checkLen(q Point) {
	if len(p.values) != len(q.values) {
		panic(fmt.Sprintf("optimization: dimension mismatch: %d != %d", len(p.values), len(q.values)))
	}
}
