// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/texops/backend"
	"github.com/gogpu/texops/gpucore"
)

// Config describes how to open a Context. It is usually loaded from TOML:
//
//	backend = "software"
//	pool_capacity = 8
//	workers = 4
//	program_prefix = "texops"
//	program_dir = "shaders"
//	log_level = "debug"
type Config struct {
	// Backend names the registered device to open. Empty selects the
	// best available device (see backend.Default).
	Backend string `toml:"backend"`

	// PoolCapacity is the number of idle temporaries cached per descriptor.
	PoolCapacity int `toml:"pool_capacity"`

	// Workers is the number of CPU workers of the software device.
	Workers int `toml:"workers"`

	// ProgramPrefix prefixes the program names loaded from the device.
	ProgramPrefix string `toml:"program_prefix"`

	// ProgramDir is a directory of WGSL program sources for devices that
	// compile host programs, laid out as "<prefix>/<family>.wgsl".
	ProgramDir string `toml:"program_dir"`

	// LogLevel enables text logging to stderr at the given level
	// ("debug", "info", "warn", "error"). Empty keeps the package logger.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		PoolCapacity:  DefaultPoolCapacity,
		ProgramPrefix: DefaultProgramPrefix,
	}
}

// ParseConfig decodes TOML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("texops: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("texops: load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	var errs []error
	if c.PoolCapacity < 0 {
		errs = append(errs, fmt.Errorf("pool_capacity %d is negative", c.PoolCapacity))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d is negative", c.Workers))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.ProgramDir != "" {
		if fi, err := os.Stat(c.ProgramDir); err != nil {
			errs = append(errs, fmt.Errorf("program_dir: %w", err))
		} else if !fi.IsDir() {
			errs = append(errs, fmt.Errorf("program_dir %q is not a directory", c.ProgramDir))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("texops: invalid config: %w", err)
	}
	return nil
}

// Level returns the parsed LogLevel. It returns slog.LevelInfo when
// LogLevel is empty.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

// logger returns the logger selected by LogLevel, or nil.
func (c Config) logger() *slog.Logger {
	if c.LogLevel == "" {
		return nil
	}
	level, err := c.Level()
	if err != nil {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Options returns the Context options of the configuration.
func (c Config) Options() []Option {
	opts := []Option{
		WithPoolCapacity(c.PoolCapacity),
		WithProgramPrefix(c.ProgramPrefix),
	}
	if l := c.logger(); l != nil {
		opts = append(opts, WithLogger(l))
	}
	return opts
}

// Open opens the configured device through the backend registry and
// creates a Context over it. The Context owns the device: closing the
// Context closes the device.
func Open(cfg Config) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := backend.Options{
		Workers:       cfg.Workers,
		ProgramPrefix: cfg.ProgramPrefix,
		Logger:        cfg.logger(),
	}
	if o.Logger == nil {
		o.Logger = Logger()
	}
	if cfg.ProgramDir != "" {
		o.Programs = os.DirFS(cfg.ProgramDir)
	}

	open := backend.Default
	if cfg.Backend != "" {
		open = func(opts backend.Options) (gpucore.Device, error) { return backend.Open(cfg.Backend, opts) }
	}
	dev, err := open(o)
	if err != nil {
		return nil, fmt.Errorf("texops: open device: %w", err)
	}

	ctx, err := New(dev, cfg.Options()...)
	if err != nil {
		return nil, errors.Join(err, dev.Close())
	}
	ctx.ownsDevice = true
	return ctx, nil
}
