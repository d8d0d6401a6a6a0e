// Package search enumerates optimizer parameter grids by cartesian product
// and keeps the best-performing configurations. Every trial constructs an
// independent optimizer instance; simplex state is never reused across
// trials.
package search

import (
	"sort"

	"github.com/optimatic/AMOEBA/internal/optimization"
	"github.com/optimatic/AMOEBA/internal/optimization/neldermead"
)

// Grid lists candidate values per Nelder-Mead parameter. Empty axes fall
// back to the single default value of that parameter.
type Grid struct {
	Alpha    []float64
	Betta    []float64
	Gamma    []float64
	MaxSteps []int
	Eps0     []float64
	MaxBlank []int
	Eps1     []float64
}

// Trial is one evaluated parameter set together with the value it achieved.
type Trial struct {
	Value  float64
	Config neldermead.Config
}

// NelderMeadParams runs the method once per parameter combination against
// the given objective and seed points, returning the keep best trials
// sorted ascending by achieved value.
func NelderMeadParams(grid Grid, fn optimization.Function, seeds []optimization.Point, keep int) ([]Trial, error) {
	if keep < 1 {
		return nil, optimization.NewErrorf("keep must be >= 1, got %d", keep).
			WithComponent("search")
	}
	var best []Trial
	for _, cfg := range grid.configs() {
		method, err := neldermead.New(cfg)
		if err != nil {
			return nil, err
		}
		if err := method.Fit(fn, seeds...); err != nil {
			return nil, err
		}
		value, err := method.Run(nil)
		if err != nil {
			return nil, err
		}
		best = saveTrial(best, Trial{Value: value, Config: cfg}, keep)
	}
	return best, nil
}

// configs expands the grid into every parameter combination.
func (g Grid) configs() []neldermead.Config {
	def := neldermead.DefaultConfig()
	alphas := fallback(g.Alpha, def.Alpha)
	bettas := fallback(g.Betta, def.Betta)
	gammas := fallback(g.Gamma, def.Gamma)
	steps := fallbackInt(g.MaxSteps, def.MaxSteps)
	eps0s := fallback(g.Eps0, def.Eps0)
	blanks := fallbackInt(g.MaxBlank, def.MaxBlank)
	eps1s := fallback(g.Eps1, def.Eps1)

	var out []neldermead.Config
	for _, alpha := range alphas {
		for _, betta := range bettas {
			for _, gamma := range gammas {
				for _, maxSteps := range steps {
					for _, eps0 := range eps0s {
						for _, maxBlank := range blanks {
							for _, eps1 := range eps1s {
								out = append(out, neldermead.Config{
									Alpha:    alpha,
									Betta:    betta,
									Gamma:    gamma,
									MaxSteps: maxSteps,
									Eps0:     eps0,
									MaxBlank: maxBlank,
									Eps1:     eps1,
								})
							}
						}
					}
				}
			}
		}
	}
	return out
}

// ConstrainedGrid lists candidate values per penalty-method parameter.
type ConstrainedGrid struct {
	Eps         []float64
	Betta       []float64
	StartWeight []float64
	MaxSteps    []int
}

// ConstrainedTrial is one evaluated penalty/method parameter pair together
// with the true objective value it achieved.
type ConstrainedTrial struct {
	Value  float64
	Config neldermead.ConstrainedConfig
	Method neldermead.Config
}

// ConstrainedParams searches the penalty-parameter grid crossed with the
// given inner method configurations. Each trial builds a fresh inner
// optimizer and wrapper, runs from the start point and records the true
// objective value at the found solution.
func ConstrainedParams(grid ConstrainedGrid, methods []neldermead.Config,
	fn optimization.Function, constraints []optimization.Constraint,
	start optimization.Point, keep int) ([]ConstrainedTrial, error) {
	if keep < 1 {
		return nil, optimization.NewErrorf("keep must be >= 1, got %d", keep).
			WithComponent("search")
	}
	if len(methods) == 0 {
		methods = []neldermead.Config{neldermead.DefaultConfig()}
	}
	var best []ConstrainedTrial
	for _, methodCfg := range methods {
		for _, cfg := range grid.configs() {
			method, err := neldermead.New(methodCfg)
			if err != nil {
				return nil, err
			}
			wrapper, err := neldermead.NewConstrained(cfg)
			if err != nil {
				return nil, err
			}
			if err := wrapper.Fit(method, fn, constraints...); err != nil {
				return nil, err
			}
			_, value, err := wrapper.Run(start, nil, nil)
			if err != nil {
				return nil, err
			}
			best = saveConstrainedTrial(best, ConstrainedTrial{
				Value:  value,
				Config: cfg,
				Method: methodCfg,
			}, keep)
		}
	}
	return best, nil
}

func (g ConstrainedGrid) configs() []neldermead.ConstrainedConfig {
	def := neldermead.DefaultConstrainedConfig()
	epss := fallback(g.Eps, def.Eps)
	bettas := fallback(g.Betta, def.Betta)
	weights := fallback(g.StartWeight, def.StartWeight)
	steps := fallbackInt(g.MaxSteps, def.MaxSteps)

	var out []neldermead.ConstrainedConfig
	for _, eps := range epss {
		for _, betta := range bettas {
			for _, weight := range weights {
				for _, maxSteps := range steps {
					out = append(out, neldermead.ConstrainedConfig{
						Eps:         eps,
						Betta:       betta,
						StartWeight: weight,
						MaxSteps:    maxSteps,
					})
				}
			}
		}
	}
	return out
}

func fallback(values []float64, def float64) []float64 {
	if len(values) == 0 {
		return []float64{def}
	}
	return values
}

func fallbackInt(values []int, def int) []int {
	if len(values) == 0 {
		return []int{def}
	}
	return values
}

func saveTrial(trials []Trial, t Trial, keep int) []Trial {
	trials = append(trials, t)
	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Value < trials[j].Value })
	if len(trials) > keep {
		trials = trials[:keep]
	}
	return trials
}

func saveConstrainedTrial(trials []ConstrainedTrial, t ConstrainedTrial, keep int) []ConstrainedTrial {
	trials = append(trials, t)
	sort.SliceStable(trials, func(i, j int) bool { return trials[i].Value < trials[j].Value })
	if len(trials) > keep {
		trials = trials[:keep]
	}
	return trials
}
