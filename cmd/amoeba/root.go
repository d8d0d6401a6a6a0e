package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/optimatic/AMOEBA/internal/logging"
)

var (
	logLevel  string
	logFormat string
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "amoeba",
	Short: "Derivative-free optimization with the Nelder-Mead simplex method",
	Long: `AMOEBA minimizes objective functions with the Nelder-Mead simplex
method, with penalty-based support for equality and inequality constraints.
It runs one-shot minimizations from the command line or serves an HTTP API
for long-running jobs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(&logging.Config{
			Level:  logLevel,
			Format: logFormat,
			Output: "stderr",
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (json, console)")
}
