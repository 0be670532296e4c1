// Package config holds the settings shared by the CLI and the MCP server.
//
// Values start from Default, are overridden by IMAGE_GRAY_* environment
// variables in FromEnv, and finally by command-line flags in cmd/image-gray.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/image-gray-bench/internal/engine"
	"github.com/ironsheep/image-gray-bench/internal/raster"
)

// Environment variables read by FromEnv.
const (
	EnvProcesses   = "IMAGE_GRAY_PROCESSES"
	EnvThreads     = "IMAGE_GRAY_THREADS"
	EnvRepeats     = "IMAGE_GRAY_REPEATS"
	EnvPolicy      = "IMAGE_GRAY_POLICY"
	EnvJPEGQuality = "IMAGE_GRAY_JPEG_QUALITY"
	EnvLogLevel    = "IMAGE_GRAY_LOG_LEVEL"
)

// Log levels.
const (
	LogInfo  = "info"
	LogDebug = "debug"
)

// ErrInvalid reports a setting outside its allowed range.
var ErrInvalid = errors.New("invalid config")

// Config is the full set of tunables.
type Config struct {
	// Processes and ThreadsPerProcess describe the worker grid. Only their
	// product matters to the engine; every worker is a goroutine.
	Processes         int
	ThreadsPerProcess int

	// Repeats is the number of grayscale passes per worker.
	Repeats int

	// Policy assigns remainder rows (engine.PolicyLast or engine.PolicyBalanced).
	Policy engine.Policy

	// JPEGQuality is used when the output file is a JPEG, 1-100.
	JPEGQuality int

	// LogLevel is LogInfo or LogDebug.
	LogLevel string
}

// Default returns a 4x4 grid with 10000 repeats.
func Default() Config {
	return Config{
		Processes:         4,
		ThreadsPerProcess: 4,
		Repeats:           10000,
		Policy:            engine.PolicyLast,
		JPEGQuality:       raster.DefaultJPEGQuality,
		LogLevel:          LogInfo,
	}
}

// FromEnv returns Default overridden by any IMAGE_GRAY_* variables that are
// set. The result is validated.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	ints := []struct {
		env string
		dst *int
	}{
		{EnvProcesses, &cfg.Processes},
		{EnvThreads, &cfg.ThreadsPerProcess},
		{EnvRepeats, &cfg.Repeats},
		{EnvJPEGQuality, &cfg.JPEGQuality},
	}
	for _, v := range ints {
		s, ok := lookup(v.env)
		if !ok || s == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, v.env, s)
		}
		*v.dst = n
	}

	if s, ok := lookup(EnvPolicy); ok && s != "" {
		cfg.Policy = engine.Policy(strings.ToLower(strings.TrimSpace(s)))
	}
	if s, ok := lookup(EnvLogLevel); ok && s != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(s))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.Processes < 1 || c.ThreadsPerProcess < 1 {
		return fmt.Errorf("%w: processes and threads must be positive, got %dx%d",
			ErrInvalid, c.Processes, c.ThreadsPerProcess)
	}
	if c.Processes > engine.MaxWorkers || c.ThreadsPerProcess > engine.MaxWorkers || c.WorkerCount() > engine.MaxWorkers {
		return fmt.Errorf("%w: %dx%d workers exceeds %d", ErrInvalid, c.Processes, c.ThreadsPerProcess, engine.MaxWorkers)
	}
	if c.Repeats < 1 {
		return fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalid, c.Repeats)
	}
	if _, err := engine.ParsePolicy(string(c.Policy)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg quality must be in [1,100], got %d", ErrInvalid, c.JPEGQuality)
	}
	switch c.LogLevel {
	case LogInfo, LogDebug:
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// WorkerCount returns Processes * ThreadsPerProcess.
func (c Config) WorkerCount() int {
	return c.Processes * c.ThreadsPerProcess
}

// Debug reports whether debug logging is enabled.
func (c Config) Debug() bool {
	return c.LogLevel == LogDebug
}

// EngineOptions converts the config into options for one engine cycle.
func (c Config) EngineOptions() engine.Options {
	return engine.Options{
		Workers:           c.WorkerCount(),
		ThreadsPerProcess: c.ThreadsPerProcess,
		Repeats:           c.Repeats,
		Policy:            c.Policy,
	}
}
