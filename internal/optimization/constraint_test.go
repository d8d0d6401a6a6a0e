package optimization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundary is the constraint function x + y - 0.5, zero on the line
// x + y = 0.5.
func boundary() Function {
	fn, err := Linear([]float64{1, 1}, -0.5)
	if err != nil {
		panic(err)
	}
	return fn
}

func TestEquality(t *testing.T) {
	c := Equality(boundary())

	assert.Equal(t, 0.0, c.Error(NewPoint(0.25, 0.25)))
	assert.Equal(t, 0.5, c.Error(NewPoint(0.5, 0.5)))
	// The penalty is the absolute value, so both sides violate equally.
	assert.Equal(t, 0.5, c.Error(NewPoint(0, 0)))

	assert.True(t, c.Check(NewPoint(0.25, 0.25)))
	assert.False(t, c.Check(NewPoint(0, 0)))
}

func TestInequality(t *testing.T) {
	c := Inequality(boundary())

	// Points below the line satisfy the constraint at zero cost.
	assert.Equal(t, 0.0, c.Error(NewPoint(0, 0)))
	assert.Equal(t, 0.0, c.Error(NewPoint(0.25, 0.25)))
	assert.Equal(t, 0.5, c.Error(NewPoint(0.5, 0.5)))

	assert.True(t, c.Check(NewPoint(0, 0)))
	assert.True(t, c.Check(NewPoint(0.25, 0.25)))
	assert.False(t, c.Check(NewPoint(1, 1)))
}

func TestConstraintNilFunctionPanics(t *testing.T) {
	assert.Panics(t, func() { Equality(nil) })
	assert.Panics(t, func() { Inequality(nil) })
}

func TestConstraintFunction(t *testing.T) {
	fn := boundary()
	c := Equality(fn)
	assert.Same(t, fn, c.Function())
}

func TestErrorFunc(t *testing.T) {
	eq := Equality(boundary()).ErrorFunc()
	ineq := Inequality(boundary()).ErrorFunc()

	require.Equal(t, 2, eq.Dimension())
	require.Equal(t, 2, ineq.Dimension())

	p := NewPoint(0, 0)
	assert.Equal(t, 0.5, eq.Evaluate(p))
	assert.Equal(t, 0.0, ineq.Evaluate(p))
}
