package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optimatic/AMOEBA/internal/optimization"
)

var (
	runsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amoeba_optimizations_started_total",
		Help: "Number of optimization jobs accepted.",
	})

	runsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amoeba_optimizations_finished_total",
		Help: "Number of optimization jobs finished, by terminal status.",
	}, []string{"status"})

	iterationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amoeba_iterations_total",
		Help: "Number of Nelder-Mead iterations across all jobs.",
	})

	evaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amoeba_objective_evaluations_total",
		Help: "Number of objective function evaluations across all jobs.",
	})

	activeJobs = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "amoeba_active_jobs",
		Help: "Number of optimization jobs currently running.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "amoeba_run_duration_seconds",
		Help:    "Wall-clock duration of optimization runs.",
		Buckets: prometheus.DefBuckets,
	})
)

// countEvaluations wraps an objective so every evaluation bumps the
// evaluation counter.
func countEvaluations(fn optimization.Function) optimization.Function {
	return optimization.NewFunc(optimization.FuncName(fn, "objective"), fn.Dimension(),
		func(p optimization.Point) float64 {
			evaluationsTotal.Inc()
			return fn.Evaluate(p)
		})
}
