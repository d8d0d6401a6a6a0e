package neldermead

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimatic/AMOEBA/internal/optimization"
)

func TestNewRejectsNegativeCoefficients(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative alpha", func(c *Config) { c.Alpha = -1 }},
		{"negative betta", func(c *Config) { c.Betta = -0.5 }},
		{"negative gamma", func(c *Config) { c.Gamma = -2 }},
		{"negative eps0", func(c *Config) { c.Eps0 = -0.001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.True(t, optimization.IsContract(err))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1.0, cfg.Alpha)
	assert.Equal(t, 0.5, cfg.Betta)
	assert.Equal(t, 2.0, cfg.Gamma)
	assert.Equal(t, 1000, cfg.MaxSteps)
	assert.Equal(t, 0.001, cfg.Eps0)
	assert.Equal(t, 10, cfg.MaxBlank)
	assert.Equal(t, 0.001, cfg.Eps1)
}

func TestRunRequiresFit(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	_, err = method.Run(nil)
	require.Error(t, err)
	assert.True(t, optimization.IsContract(err))
}

func TestFitRejectsNilFunction(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	err = method.Fit(nil)
	require.Error(t, err)
	assert.True(t, optimization.IsContract(err))
}

func TestFitLeavesStateUntouchedOnFailure(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	fn := optimization.Sphere(2)
	require.NoError(t, method.Fit(fn))

	err = method.Fit(optimization.Sphere(3), optimization.NewPoint(1, 2))
	require.Error(t, err)
	assert.Same(t, fn, method.Function())
}

func TestMinimizeSphere(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Sphere(2),
		optimization.NewPoint(10, 9),
		optimization.NewPoint(10, -2),
		optimization.NewPoint(21, 1),
	))

	value, err := method.Run(nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, value, 0.01)

	best := method.Simplex().Best().Point
	assert.InDelta(t, 0, best.At(0), 0.1)
	assert.InDelta(t, 0, best.At(1), 0.1)
}

func TestMinimizeRosenbrock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Eps0 = 0.0001

	method, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Rosenbrock(),
		optimization.NewPoint(10, 9),
		optimization.NewPoint(10, -2),
		optimization.NewPoint(21, 1),
	))

	value, err := method.Run(nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, value, 0.001)

	best := method.Simplex().Best().Point
	assert.InDelta(t, 1, best.At(0), 0.1)
	assert.InDelta(t, 1, best.At(1), 0.1)
}

func TestMinimizeHimmelblau(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Himmelblau(),
		optimization.NewPoint(-1.5, 0.5),
		optimization.NewPoint(-4, 2.5),
		optimization.NewPoint(-4.5, 5),
	))

	value, err := method.Run(nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, value, 0.01)

	// These seeds converge to the minimum in the second quadrant.
	best := method.Simplex().Best().Point
	assert.InDelta(t, -2.805118, best.At(0), 0.01)
	assert.InDelta(t, 3.131312, best.At(1), 0.01)
}

func TestMinimizeQuadraticWithFewSteps(t *testing.T) {
	// f(x, y) = x^2 + xy + y^2 - 6x - 9y has its minimum -21 at (1, 4).
	fn := optimization.NewFunc("quadratic", 2, func(p optimization.Point) float64 {
		x, y := p.At(0), p.At(1)
		return x*x + x*y + y*y - 6*x - 9*y
	})

	cfg := DefaultConfig()
	cfg.MaxSteps = 10

	method, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, method.Fit(fn,
		optimization.NewPoint(0, 0),
		optimization.NewPoint(1, 0),
		optimization.NewPoint(0, 1),
	))

	value, err := method.Run(nil)
	require.NoError(t, err)
	assert.Greater(t, value, -21.0-1e-9)
	assert.InDelta(t, -21, value, 0.5)
}

func TestReflectedPointBeatingOnlyWorstIsContractedAgain(t *testing.T) {
	// One-dimensional sphere with vertices 1 and 3: the reflected point -1
	// ties the best value, is accepted in place of the worst and is then
	// itself contracted toward the centroid, landing on the optimum 0.
	cfg := DefaultConfig()
	cfg.MaxSteps = 0
	cfg.Eps0 = 0

	method, err := New(cfg)
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Sphere(1),
		optimization.NewPoint(1),
		optimization.NewPoint(3),
	))

	value, err := method.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value)
	assert.True(t, method.Simplex().Best().Point.Equal(optimization.Zero(1)))
}

func TestStagnationStopsEarly(t *testing.T) {
	// A constant objective never improves, so every iteration is blank and
	// the run stops after MaxBlank iterations instead of MaxSteps.
	fn := optimization.NewFunc("flat", 2, func(p optimization.Point) float64 { return 1 })

	cfg := DefaultConfig()
	cfg.Eps0 = 0
	cfg.MaxBlank = 5

	method, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, method.Fit(fn))

	iterations := 0
	_, err = method.Run(func(*NelderMead) { iterations++ })
	require.NoError(t, err)
	assert.Equal(t, 5, iterations)
}

func TestActionObservesEveryIteration(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Sphere(2),
		optimization.NewPoint(10, 9),
		optimization.NewPoint(10, -2),
		optimization.NewPoint(21, 1),
	))

	var values []float64
	value, err := method.Run(func(nm *NelderMead) {
		values = append(values, nm.Simplex().Best().Value)
	})
	require.NoError(t, err)

	require.NotEmpty(t, values)
	assert.Equal(t, value, values[len(values)-1])
	// The best value never gets worse.
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, values[i], values[i-1])
	}
}

func TestRunCapsIterations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 3
	cfg.Eps0 = 0
	cfg.Eps1 = 0 // every iteration counts as useful, stagnation never fires

	method, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, method.Fit(optimization.Sphere(2),
		optimization.NewPoint(10, 9),
		optimization.NewPoint(10, -2),
		optimization.NewPoint(21, 1),
	))

	iterations := 0
	_, err = method.Run(func(*NelderMead) { iterations++ })
	require.NoError(t, err)
	assert.Equal(t, 4, iterations)
}

func TestRefitResetsState(t *testing.T) {
	method, err := New(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Sphere(2),
		optimization.NewPoint(10, 9),
		optimization.NewPoint(10, -2),
		optimization.NewPoint(21, 1),
	))
	first, err := method.Run(nil)
	require.NoError(t, err)

	require.NoError(t, method.Fit(optimization.Rosenbrock(),
		optimization.NewPoint(10, 9),
		optimization.NewPoint(10, -2),
		optimization.NewPoint(21, 1),
	))
	second, err := method.Run(nil)
	require.NoError(t, err)

	assert.InDelta(t, 0, first, 0.01)
	assert.InDelta(t, 0, second, 0.01)
}
