package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoint(t *testing.T) {
	p := NewPoint(1, 2, 3)
	assert.Equal(t, 3, p.Dimension())
	assert.Equal(t, []float64{1, 2, 3}, p.Values())

	assert.Panics(t, func() { NewPoint() })
}

func TestNewPointCopiesInput(t *testing.T) {
	coords := []float64{1, 2}
	p := NewPoint(coords...)
	coords[0] = 99
	assert.Equal(t, 1.0, p.At(0))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, Zero(3).Values())
	assert.Equal(t, []float64{1, 1}, Ones(2).Values())
	assert.Equal(t, []float64{0, 1, 0}, Unit(3, 1).Values())

	assert.Panics(t, func() { Zero(0) })
	assert.Panics(t, func() { Ones(-1) })
	assert.Panics(t, func() { Unit(2, 2) })
	assert.Panics(t, func() { Unit(2, -1) })
}

func TestArithmetic(t *testing.T) {
	p := NewPoint(1, 2)
	q := NewPoint(3, 5)

	assert.Equal(t, []float64{4, 7}, p.Add(q).Values())
	assert.Equal(t, []float64{-2, -3}, p.Sub(q).Values())
	assert.Equal(t, []float64{2, 4}, p.Scale(2).Values())
	assert.Equal(t, []float64{0.5, 1}, p.Div(2).Values())
	assert.Equal(t, 13.0, p.Dot(q))
	assert.InDelta(t, 3.605551, p.Distance(q), 1e-6)
}

func TestArithmeticIsImmutable(t *testing.T) {
	p := NewPoint(1, 2)
	q := NewPoint(3, 5)

	p.Add(q)
	p.Scale(10)
	assert.Equal(t, []float64{1, 2}, p.Values())
}

func TestDimensionMismatchPanics(t *testing.T) {
	p := NewPoint(1, 2)
	q := NewPoint(1, 2, 3)

	assert.Panics(t, func() { p.Add(q) })
	assert.Panics(t, func() { p.Sub(q) })
	assert.Panics(t, func() { p.Dot(q) })
	assert.Panics(t, func() { p.Distance(q) })
}

func TestEqual(t *testing.T) {
	assert.True(t, NewPoint(1, 2).Equal(NewPoint(1, 2)))
	assert.False(t, NewPoint(1, 2).Equal(NewPoint(1, 3)))
	assert.False(t, NewPoint(1, 2).Equal(NewPoint(1, 2, 3)))
}

func TestScalarPower(t *testing.T) {
	p := NewPoint(1, 2) // p·p = 5

	assert.Equal(t, 1.0, p.ScalarPower(0))
	assert.Equal(t, 5.0, p.ScalarPower(2))
	assert.Equal(t, 25.0, p.ScalarPower(4))
	assert.Equal(t, 125.0, p.ScalarPower(6))

	assert.Panics(t, func() { p.ScalarPower(1) })
	assert.Panics(t, func() { p.ScalarPower(3) })
	assert.Panics(t, func() { p.ScalarPower(-2) })
}

func TestRepeatedScale(t *testing.T) {
	p := NewPoint(1, 2) // p·p = 5

	assert.Equal(t, []float64{1, 2}, p.RepeatedScale(1).Values())
	assert.Equal(t, []float64{5, 10}, p.RepeatedScale(3).Values())
	assert.Equal(t, []float64{25, 50}, p.RepeatedScale(5).Values())

	assert.Panics(t, func() { p.RepeatedScale(0) })
	assert.Panics(t, func() { p.RepeatedScale(2) })
	assert.Panics(t, func() { p.RepeatedScale(-1) })
}

func TestValuesReturnsCopy(t *testing.T) {
	p := NewPoint(1, 2)
	vs := p.Values()
	vs[0] = 99
	require.Equal(t, 1.0, p.At(0))
}

func TestString(t *testing.T) {
	assert.Equal(t, "(1, 2.5, -3)", NewPoint(1, 2.5, -3).String())
}
