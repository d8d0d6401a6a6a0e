package neldermead

import (
	"github.com/optimatic/AMOEBA/internal/optimization"
)

// ConstrainedConfig holds the parameters of the exterior penalty method.
type ConstrainedConfig struct {
	// Eps is the target penalty tolerance; the outer loop stops once the
	// weighted constraint violation falls below it.
	Eps float64
	// Betta is the penalty growth factor applied after every round,
	// strictly greater than 1.
	Betta float64
	// StartWeight is the initial penalty coefficient, strictly positive.
	StartWeight float64
	// MaxSteps caps the number of outer rounds.
	MaxSteps int
}

// DefaultConstrainedConfig returns the standard penalty parameters.
func DefaultConstrainedConfig() ConstrainedConfig {
	return ConstrainedConfig{
		Eps:         0.0001,
		Betta:       1.5,
		StartWeight: 1.0,
		MaxSteps:    1000,
	}
}

// ConstrainedAction is the synchronous per-round observation hook of the
// penalty method.
type ConstrainedAction func(*ConstrainedNelderMead)

// ConstrainedNelderMead adapts the Nelder-Mead method to constrained
// optimization by converting the problem to a sequence of unconstrained
// ones with an escalating penalty for constraint violation.
type ConstrainedNelderMead struct {
	cfg         ConstrainedConfig
	method      *NelderMead
	fn          optimization.Function
	constraints []optimization.Constraint
}

// NewConstrained creates a penalty-method wrapper with the given
// configuration. Eps must be non-negative, Betta strictly greater than 1,
// StartWeight strictly positive and MaxSteps at least 1.
func NewConstrained(cfg ConstrainedConfig) (*ConstrainedNelderMead, error) {
	if cfg.Eps < 0 {
		return nil, optimization.NewErrorf("eps must be >= 0, got %g", cfg.Eps).
			WithComponent("constrained")
	}
	if cfg.Betta <= 1 {
		return nil, optimization.NewErrorf("betta must be > 1, got %g", cfg.Betta).
			WithComponent("constrained")
	}
	if cfg.StartWeight <= 0 {
		return nil, optimization.NewErrorf("start weight must be > 0, got %g", cfg.StartWeight).
			WithComponent("constrained")
	}
	if cfg.MaxSteps < 1 {
		return nil, optimization.NewErrorf("max steps must be >= 1, got %d", cfg.MaxSteps).
			WithComponent("constrained")
	}
	return &ConstrainedNelderMead{cfg: cfg}, nil
}

// Params returns the penalty-method configuration.
func (c *ConstrainedNelderMead) Params() ConstrainedConfig {
	return c.cfg
}

// Method returns the inner Nelder-Mead optimizer, nil before Fit.
func (c *ConstrainedNelderMead) Method() *NelderMead {
	return c.method
}

// Function returns the true objective, nil before Fit.
func (c *ConstrainedNelderMead) Function() optimization.Function {
	return c.fn
}

// Constraints returns a copy of the constraint list.
func (c *ConstrainedNelderMead) Constraints() []optimization.Constraint {
	cs := make([]optimization.Constraint, len(c.constraints))
	copy(cs, c.constraints)
	return cs
}

// Fit stores the inner method, the true objective and the constraints.
// Every constraint function must share the objective's dimension, and at
// least one constraint is required. No state changes on failure.
func (c *ConstrainedNelderMead) Fit(method *NelderMead, fn optimization.Function, constraints ...optimization.Constraint) error {
	if method == nil {
		return optimization.NewError("method must not be nil").
			WithComponent("constrained").WithOperation("Fit")
	}
	if fn == nil {
		return optimization.NewError("function must not be nil").
			WithComponent("constrained").WithOperation("Fit")
	}
	if len(constraints) == 0 {
		return optimization.NewError("at least one constraint required").
			WithComponent("constrained").WithOperation("Fit")
	}
	dim := fn.Dimension()
	for _, constraint := range constraints {
		if constraint.Function().Dimension() != dim {
			return optimization.NewErrorf("constraint dimension must be %d, got %d",
				dim, constraint.Function().Dimension()).
				WithComponent("constrained").WithOperation("Fit")
		}
	}
	c.method = method
	c.fn = fn
	c.constraints = append([]optimization.Constraint(nil), constraints...)
	return nil
}

// Run executes the escalating-penalty loop from the given start point and
// returns the found solution together with the true, unpenalized objective
// value at it. Each round refits the inner method with the penalized
// objective seeded by the current solution, runs it to convergence and then
// tightens the penalty weight. The loop ends once the weighted violation
// drops below Eps or MaxSteps rounds have run.
func (c *ConstrainedNelderMead) Run(start optimization.Point, nmAction Action, action ConstrainedAction) (optimization.Point, float64, error) {
	if c.method == nil {
		return optimization.Point{}, 0, optimization.NewError("no method fitted, call Fit first").
			WithComponent("constrained").WithOperation("Run")
	}
	weight := c.cfg.StartWeight
	solution := start
	violation := c.cfg.Eps + 1
	for step := 0; violation >= c.cfg.Eps; {
		step++
		penalty, err := c.penalty(weight)
		if err != nil {
			return optimization.Point{}, 0, err
		}
		penalized, err := optimization.Sum(c.fn, penalty)
		if err != nil {
			return optimization.Point{}, 0, err
		}
		if err := c.method.Fit(penalized, solution); err != nil {
			return optimization.Point{}, 0, err
		}
		if _, err := c.method.Run(nmAction); err != nil {
			return optimization.Point{}, 0, err
		}
		solution = c.method.Simplex().Best().Point
		if action != nil {
			action(c)
		}
		// The achieved violation is measured with the weight of this
		// round, before escalation.
		violation = penalty.Evaluate(solution)
		weight *= c.cfg.Betta
		if step >= c.cfg.MaxSteps {
			break
		}
	}
	return solution, c.fn.Evaluate(solution), nil
}

// penalty builds the weighted sum of all constraint penalty functions.
func (c *ConstrainedNelderMead) penalty(weight float64) (optimization.Function, error) {
	terms := make([]optimization.Function, len(c.constraints))
	for i, constraint := range c.constraints {
		terms[i] = constraint.ErrorFunc()
	}
	sum, err := optimization.Sum(terms...)
	if err != nil {
		return nil, err
	}
	return optimization.Scale(weight, sum), nil
}
