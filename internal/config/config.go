// Package config loads the server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is the full server configuration, populated from environment
// variables with sensible defaults for local development.
type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Optimization struct {
		// Default Nelder-Mead coefficients for jobs that do not override
		// them in the request.
		Alpha    float64 `env:"OPT_ALPHA" envDefault:"1"`
		Betta    float64 `env:"OPT_BETTA" envDefault:"0.5"`
		Gamma    float64 `env:"OPT_GAMMA" envDefault:"2"`
		MaxSteps int     `env:"OPT_MAX_STEPS" envDefault:"1000"`
		Eps0     float64 `env:"OPT_EPS0" envDefault:"0.001"`
		MaxBlank int     `env:"OPT_MAX_BLANK" envDefault:"10"`
		Eps1     float64 `env:"OPT_EPS1" envDefault:"0.001"`

		// MaxJobs caps the number of jobs kept in memory.
		MaxJobs int `env:"OPT_MAX_JOBS" envDefault:"64"`
	}
}

// Load parses the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Development runs default to verbose console logs.
	if cfg.Environment == "development" && cfg.Logging.Format == "json" {
		cfg.Logging.Format = "console"
	}

	return cfg, nil
}
