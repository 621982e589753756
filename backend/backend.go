// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/gogpu/texops/gpucore"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered
	// or cannot open a device on this machine.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU reference device.
	BackendSoftware = "software"
	// BackendWGPU is the name of the Pure Go WebGPU device (gogpu/wgpu).
	BackendWGPU = "wgpu"
)

// Options configure a device opened through the registry.
type Options struct {
	// Workers is the number of CPU workers of the software device.
	// Zero means GOMAXPROCS.
	Workers int

	// ProgramPrefix prefixes the program names the device serves.
	// Empty means "texops".
	ProgramPrefix string

	// Programs supplies the program sources of devices that compile host
	// programs, such as the wgpu device. Nil makes those devices
	// unavailable.
	Programs fs.FS

	// Logger receives device diagnostics. Nil disables logging.
	Logger *slog.Logger
}

// Factory opens a device. It returns an error wrapping
// ErrBackendNotAvailable when the device cannot be created here.
type Factory func(opts Options) (gpucore.Device, error)
