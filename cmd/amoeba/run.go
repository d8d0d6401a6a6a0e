package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optimatic/AMOEBA/internal/optimization"
	"github.com/optimatic/AMOEBA/internal/optimization/neldermead"
)

var (
	runObjective string
	runDimension int
	runPoints    []string
	runMaxSteps  int
	runEps0      float64
	runTrace     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a one-shot minimization of a named objective",
	Long: `Minimizes one of the built-in objectives (sphere, rosenbrock,
himmelblau) from the given start points and prints the best point found.`,
	RunE: runMinimization,
}

func init() {
	runCmd.Flags().StringVar(&runObjective, "objective", "sphere", "Objective to minimize (sphere, rosenbrock, himmelblau)")
	runCmd.Flags().IntVar(&runDimension, "dimension", 2, "Dimension of the objective (sphere only)")
	runCmd.Flags().StringSliceVar(&runPoints, "point", nil, "Starting point as comma-free coordinates, e.g. --point '10 9' (repeatable)")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 1000, "Iteration cap")
	runCmd.Flags().Float64Var(&runEps0, "eps0", 0.001, "Dispersion stop threshold")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "Log the best value of every iteration")

	rootCmd.AddCommand(runCmd)
}

func runMinimization(cmd *cobra.Command, args []string) error {
	fn, err := optimization.Lookup(runObjective, runDimension)
	if err != nil {
		return err
	}

	points, err := parsePoints(runPoints, fn.Dimension())
	if err != nil {
		return err
	}

	cfg := neldermead.DefaultConfig()
	cfg.MaxSteps = runMaxSteps
	cfg.Eps0 = runEps0

	method, err := neldermead.New(cfg)
	if err != nil {
		return err
	}
	if err := method.Fit(fn, points...); err != nil {
		return err
	}

	logger.Info("starting minimization",
		zap.String("objective", optimization.FuncName(fn, "custom")),
		zap.Int("dimension", fn.Dimension()),
		zap.Int("max_steps", cfg.MaxSteps),
	)

	var action neldermead.Action
	step := 0
	if runTrace {
		action = func(nm *neldermead.NelderMead) {
			step++
			logger.Info("iteration",
				zap.Int("step", step),
				zap.Float64("best", nm.Simplex().Best().Value),
			)
		}
	}

	value, err := method.Run(action)
	if err != nil {
		return err
	}

	best := method.Simplex().Best()
	fmt.Printf("best point: %v\n", best.Point.Values())
	fmt.Printf("best value: %g\n", value)
	return nil
}

// parsePoints converts space-separated coordinate strings into points.
func parsePoints(raw []string, dimension int) ([]optimization.Point, error) {
	points := make([]optimization.Point, 0, len(raw))
	for _, entry := range raw {
		fields := strings.Fields(entry)
		if len(fields) != dimension {
			return nil, fmt.Errorf("point %q must have %d coordinates", entry, dimension)
		}
		coords := make([]float64, len(fields))
		for i, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("point %q: %w", entry, err)
			}
			coords[i] = value
		}
		points = append(points, optimization.NewPoint(coords...))
	}
	return points, nil
}
