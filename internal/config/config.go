// Package config holds the runtime settings of the command line and the
// HTTP server.
//
// Settings come from, in increasing precedence: built-in defaults, a TOML
// file, a .env file and TRUSS_* environment variables.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/alexiusacademia/gotruss/internal/apperr"
	"github.com/alexiusacademia/gotruss/internal/truss"
)

// DefaultPath is read when no config file is named. It may be absent.
const DefaultPath = "gotruss.toml"

// Config is the full runtime configuration.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
	Defaults Defaults `toml:"defaults"`
}

// Analysis holds the engine tolerances.
type Analysis struct {
	MinLength       float64 `toml:"min_length"`
	StressThreshold float64 `toml:"stress_threshold"`
	SafetySentinel  float64 `toml:"safety_sentinel"`
	ConditionLimit  float64 `toml:"condition_limit"`
}

// Options converts the tolerances for the engine.
func (a Analysis) Options() truss.Options {
	return truss.Options{
		MinLength:       a.MinLength,
		StressThreshold: a.StressThreshold,
		SafetySentinel:  a.SafetySentinel,
		ConditionLimit:  a.ConditionLimit,
	}
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `toml:"addr"`
	Rate            float64       `toml:"rate"`  // requests per second per client
	Burst           int           `toml:"burst"` // requests
	BodyLimit       int64         `toml:"body_limit"`
	MaxNodes        int           `toml:"max_nodes"` // per analysis
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Defaults fill values a project leaves unset.
type Defaults struct {
	Material string  `toml:"material"`
	AreaCm2  float64 `toml:"area_cm2"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := truss.DefaultOptions()
	return &Config{
		Analysis: Analysis{
			MinLength:       opts.MinLength,
			StressThreshold: opts.StressThreshold,
			SafetySentinel:  opts.SafetySentinel,
			ConditionLimit:  opts.ConditionLimit,
		},
		Server: Server{
			Addr:            ":8080",
			Rate:            5,
			Burst:           10,
			BodyLimit:       1 << 20,
			MaxNodes:        2000,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:      Log{Level: "info"},
		Defaults: Defaults{Material: "Steel", AreaCm2: 15},
	}
}

// Load builds the configuration. An empty path reads DefaultPath if it
// exists; a named file must exist. envFile names a dotenv file loaded into
// the process environment before TRUSS_* overrides apply; a missing one is
// ignored.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return nil, apperr.Wrap(apperr.CodeFileNotFound, err, "config %s", path)
		default:
			return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "config %s", path)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "env file %s", envFile)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TRUSS_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("TRUSS_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("TRUSS_MATERIAL"); ok && v != "" {
		c.Defaults.Material = v
	}
	if v, ok := lookup("TRUSS_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperr.Wrap(apperr.CodeInvalidInput, err, "TRUSS_RATE")
		}
		c.Server.Rate = f
	}
	if v, ok := lookup("TRUSS_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Wrap(apperr.CodeInvalidInput, err, "TRUSS_BURST")
		}
		c.Server.Burst = n
	}
	if v, ok := lookup("TRUSS_MAX_NODES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Wrap(apperr.CodeInvalidInput, err, "TRUSS_MAX_NODES")
		}
		c.Server.MaxNodes = n
	}
	return nil
}

// Validate rejects settings the engine or server cannot run with.
func (c *Config) Validate() error {
	a := c.Analysis
	switch {
	case a.MinLength < 0:
		return invalid("analysis.min_length must not be negative")
	case a.StressThreshold < 0:
		return invalid("analysis.stress_threshold must not be negative")
	case a.ConditionLimit <= 1:
		return invalid("analysis.condition_limit must be greater than 1")
	case c.Server.Rate <= 0:
		return invalid("server.rate must be positive")
	case c.Server.Burst < 1:
		return invalid("server.burst must be at least 1")
	case c.Server.BodyLimit < 1:
		return invalid("server.body_limit must be positive")
	case c.Server.MaxNodes < 1:
		return invalid("server.max_nodes must be at least 1")
	case c.Defaults.AreaCm2 <= 0:
		return invalid("defaults.area_cm2 must be positive")
	}
	return nil
}

func invalid(msg string) error {
	return apperr.New(apperr.CodeInvalidInput, "config: %s", msg)
}
