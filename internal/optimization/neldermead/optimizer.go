package neldermead

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/optimatic/AMOEBA/internal/optimization"
)

// Config holds the tunable coefficients and stopping controls of the
// Nelder-Mead method.
type Config struct {
	// Alpha is the reflection coefficient.
	Alpha float64
	// Betta is the contraction coefficient.
	Betta float64
	// Gamma is the expansion coefficient.
	Gamma float64
	// MaxSteps caps the iteration count; the loop runs at most
	// MaxSteps+1 iterations.
	MaxSteps int
	// Eps0 is the dispersion threshold for the shrinkage stop criterion.
	Eps0 float64
	// MaxBlank is the number of consecutive blank iterations after which
	// the method stops.
	MaxBlank int
	// Eps1 is the minimum best-value change separating a useful iteration
	// from a blank one.
	Eps1 float64
}

// DefaultConfig returns the standard coefficients: reflection 1,
// contraction 0.5, expansion 2, with 1000 steps and 0.001 tolerances.
func DefaultConfig() Config {
	return Config{
		Alpha:    1,
		Betta:    0.5,
		Gamma:    2,
		MaxSteps: 1000,
		Eps0:     0.001,
		MaxBlank: 10,
		Eps1:     0.001,
	}
}

// Action is the synchronous per-iteration observation hook. It is invoked
// in-line after each iteration with the optimizer itself and may read its
// state, but must not mutate it.
type Action func(*NelderMead)

// NelderMead is a stateful Nelder-Mead optimizer. One instance can be
// refitted to different objectives; the configuration is fixed at
// construction.
type NelderMead struct {
	cfg          Config
	fn           optimization.Function
	simplex      *Simplex
	currentBlank int
	lastValue    float64
}

// New creates an optimizer with the given configuration.
// Negative Alpha, Betta, Gamma or Eps0 are rejected.
func New(cfg Config) (*NelderMead, error) {
	if cfg.Alpha < 0 {
		return nil, optimization.NewErrorf("alpha must be >= 0, got %g", cfg.Alpha).
			WithComponent("neldermead")
	}
	if cfg.Betta < 0 {
		return nil, optimization.NewErrorf("betta must be >= 0, got %g", cfg.Betta).
			WithComponent("neldermead")
	}
	if cfg.Gamma < 0 {
		return nil, optimization.NewErrorf("gamma must be >= 0, got %g", cfg.Gamma).
			WithComponent("neldermead")
	}
	if cfg.Eps0 < 0 {
		return nil, optimization.NewErrorf("eps0 must be >= 0, got %g", cfg.Eps0).
			WithComponent("neldermead")
	}
	return &NelderMead{cfg: cfg}, nil
}

// Params returns the optimizer configuration.
func (nm *NelderMead) Params() Config {
	return nm.cfg
}

// Function returns the current objective, nil before Fit.
func (nm *NelderMead) Function() optimization.Function {
	return nm.fn
}

// Simplex returns the current simplex for inspection by observers.
func (nm *NelderMead) Simplex() *Simplex {
	return nm.simplex
}

// Fit sets the objective and builds the initial simplex from the seed
// points via the auto-completion rule. No state changes on failure.
func (nm *NelderMead) Fit(fn optimization.Function, points ...optimization.Point) error {
	if fn == nil {
		return optimization.NewError("function must not be nil").
			WithComponent("neldermead").WithOperation("Fit")
	}
	simplex, err := NewSimplex(fn, points...)
	if err != nil {
		return err
	}
	nm.fn = fn
	nm.simplex = simplex
	return nil
}

// Run executes the iterate-until-converged loop and returns the best value
// in the final simplex. The optional action is invoked after every
// iteration. Run fails when no objective has been fitted.
func (nm *NelderMead) Run(action Action) (float64, error) {
	if nm.fn == nil {
		return 0, optimization.NewError("no function fitted, call Fit first").
			WithComponent("neldermead").WithOperation("Run")
	}
	nm.currentBlank = 0
	nm.simplex = nm.simplex.Sort()
	for iteration := 0; iteration <= nm.cfg.MaxSteps; iteration++ {
		sim := nm.simplex
		centroid := sim.centroid()
		best, good, worst := sim.Best(), sim.Good(), sim.Worst()
		nm.lastValue = best.Value

		reflected := nm.reflect(centroid, worst)
		switch {
		case reflected.Value < best.Value:
			nm.expand(centroid, reflected)
		case reflected.Value < good.Value:
			nm.simplex = sim.replaceAt(-1, reflected)
		default:
			// A reflected point that beats only the worst is accepted
			// first; the contraction below then reads it as the current
			// worst and may displace it again.
			if reflected.Value < worst.Value {
				nm.simplex = sim.replaceAt(-1, reflected)
			}
			nm.contract(centroid)
		}
		nm.simplex = nm.simplex.Sort()
		if action != nil {
			action(nm)
		}
		if nm.stop() {
			break
		}
	}
	return nm.simplex.Best().Value, nil
}

// reflect mirrors the worst point through the centroid:
// (1+alpha)*centroid - alpha*worst.
func (nm *NelderMead) reflect(centroid optimization.Point, worst Vertex) Vertex {
	p := centroid.Scale(1 + nm.cfg.Alpha).Sub(worst.Point.Scale(nm.cfg.Alpha))
	return Vertex{Point: p, Value: nm.fn.Evaluate(p)}
}

// expand stretches past the reflected point and keeps whichever of the two
// is better, replacing the worst vertex.
func (nm *NelderMead) expand(centroid optimization.Point, reflected Vertex) {
	p := centroid.Scale(1 - nm.cfg.Gamma).Add(reflected.Point.Scale(nm.cfg.Gamma))
	value := nm.fn.Evaluate(p)
	if value <= reflected.Value {
		nm.simplex = nm.simplex.replaceAt(-1, Vertex{Point: p, Value: value})
	} else {
		nm.simplex = nm.simplex.replaceAt(-1, reflected)
	}
}

// contract pulls the current worst point toward the centroid. When even the
// contracted point is no improvement, the whole simplex shrinks toward the
// best point. The worst vertex is read from the current simplex, which in
// the fall-through branch is already the just-accepted reflected point.
func (nm *NelderMead) contract(centroid optimization.Point) {
	worst := nm.simplex.Worst()
	p := centroid.Scale(1 - nm.cfg.Betta).Add(worst.Point.Scale(nm.cfg.Betta))
	value := nm.fn.Evaluate(p)
	if value < worst.Value {
		nm.simplex = nm.simplex.replaceAt(-1, Vertex{Point: p, Value: value})
		return
	}
	nm.shrink()
}

// shrink replaces every non-best point p with best + (p-best)/2, each value
// recomputed through the replacement itself.
func (nm *NelderMead) shrink() {
	snapshot := nm.simplex.Vertices()
	best := snapshot[0].Point
	for i, v := range snapshot[1:] {
		moved := best.Add(v.Point.Sub(best).Div(2))
		nm.simplex = nm.simplex.replaceAt(i+1, Vertex{Point: moved, Value: nm.fn.Evaluate(moved)})
	}
}

// stop evaluates both stop criteria, stagnation first: the blank counter is
// updated before dispersion is computed, and either criterion can terminate
// the loop on its own.
func (nm *NelderMead) stop() bool {
	current := nm.simplex.Best().Value
	if math.Abs(current-nm.lastValue) < nm.cfg.Eps1 {
		nm.currentBlank++
	} else {
		nm.currentBlank = 0
	}
	if nm.currentBlank == nm.cfg.MaxBlank {
		return true
	}
	return nm.dispersion() < nm.cfg.Eps0
}

// dispersion measures the spread of the simplex: the summed squared
// deviation of every point from the scalar mean of the mean point, scaled
// by the dimension and the vertex count.
func (nm *NelderMead) dispersion() float64 {
	size := nm.fn.Dimension()
	vertices := nm.simplex.Vertices()
	sum := optimization.Zero(size)
	for _, v := range vertices {
		sum = sum.Add(v.Point)
	}
	mean := stat.Mean(sum.Div(float64(len(vertices))).Values(), nil)
	shift := optimization.Ones(size).Scale(mean)
	dispersion := 0.0
	for _, v := range vertices {
		diff := v.Point.Sub(shift)
		dispersion += diff.Dot(diff) / float64(size)
	}
	return dispersion / float64(len(vertices))
}
