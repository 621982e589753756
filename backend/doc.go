// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a registry of texops devices.
//
// A device implements [gpucore.Device]. Device packages register a factory
// from their init() function, so importing a backend makes it available:
//
//	import _ "github.com/gogpu/texops/backend/software"
//	import _ "github.com/gogpu/texops/backend/wgpu"
//
// # Device Selection
//
// Use Default() to open the best available device, or Open() to request
// a specific backend by name:
//
//	// Open the default (best available) device
//	dev, err := backend.Default(backend.Options{})
//
//	// Or request a specific backend
//	dev, err := backend.Open(backend.BackendSoftware, backend.Options{Workers: 4})
//
// Priority order of Default is wgpu, then software. A backend whose
// factory fails (for example wgpu without a GPU) is skipped.
package backend
