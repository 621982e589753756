// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"log/slog"

	"github.com/gogpu/texops/internal/image"
)

// DefaultProgramPrefix is the prefix of the program names loaded from the
// device: "texops/math", "texops/ip" and "texops/draw".
const DefaultProgramPrefix = "texops"

// DefaultPoolCapacity is the number of idle temporary images kept per
// descriptor.
const DefaultPoolCapacity = image.DefaultCapacity

// Option configures a Context during creation.
//
// Example:
//
//	ctx, err := texops.New(dev,
//	    texops.WithPoolCapacity(8),
//	    texops.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	logger        *slog.Logger
	poolCapacity  int
	programPrefix string
}

// defaultOptions returns the default context options.
func defaultOptions() options {
	return options{
		poolCapacity:  DefaultPoolCapacity,
		programPrefix: DefaultProgramPrefix,
	}
}

// WithLogger sets the logger of the Context and its device. Without it the
// package logger (see SetLogger) is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithPoolCapacity sets how many idle temporary images are cached per
// descriptor. Zero disables caching; every released temporary is destroyed.
func WithPoolCapacity(n int) Option {
	return func(o *options) {
		o.poolCapacity = max(n, 0)
	}
}

// WithProgramPrefix sets the prefix of the program names loaded from the
// device. An empty prefix keeps DefaultProgramPrefix.
func WithProgramPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.programPrefix = prefix
		}
	}
}
