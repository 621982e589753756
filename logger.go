// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/texops/gpucore"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// devices tracks the devices of open contexts so that SetLogger reaches
// them.
var (
	devicesMu sync.Mutex
	devices   = make(map[gpucore.Device]int)
)

// SetLogger configures the logger for texops and the devices of all open
// contexts. By default, texops produces no log output.
//
// SetLogger is safe for concurrent use. Pass nil to disable logging.
//
// Log levels used by texops:
//   - [slog.LevelDebug]: dispatch grids, program loads, pool misses
//   - [slog.LevelInfo]: device initialization
//   - [slog.LevelWarn]: leaked temporary images, release errors
//
// Example:
//
//	texops.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	devicesMu.Lock()
	defer devicesMu.Unlock()
	for dev := range devices {
		propagateLogger(dev, l)
	}
}

// Logger returns the current logger used by texops.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a device if it implements
// loggerSetter.
func propagateLogger(dev gpucore.Device, l *slog.Logger) {
	if ls, ok := dev.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

func trackDevice(dev gpucore.Device) {
	devicesMu.Lock()
	devices[dev]++
	devicesMu.Unlock()
}

func untrackDevice(dev gpucore.Device) {
	devicesMu.Lock()
	if devices[dev]--; devices[dev] <= 0 {
		delete(devices, dev)
	}
	devicesMu.Unlock()
}
