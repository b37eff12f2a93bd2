package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProfilePath points at the run description file.
	ProfilePath string
	// ParamsPath points at the shared parameter file every stage receives.
	ParamsPath string
	// StagesPath optionally points at a directory of HCL stage manifests;
	// empty selects the built-in catalog.
	StagesPath string

	Threads   int
	Workers   int
	KeepGoing bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config value.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProfilePath == "" {
		return nil, errors.New("a run description path is required")
	}
	if cfg.ParamsPath == "" {
		return nil, errors.New("a parameter file path is required (-params)")
	}
	if cfg.Threads < 1 {
		return nil, errors.New("threads must be at least 1")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("workers must be at least 1")
	}
	return &cfg, nil
}
