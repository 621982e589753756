// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// entryPoint is a compute entry point of a WGSL program.
type entryPoint struct {
	name string
	wgX  uint32
	wgY  uint32
	wgZ  uint32
}

// compiledProgram is a WGSL program lowered and compiled to SPIR-V.
type compiledProgram struct {
	code    []uint32
	entries map[string]entryPoint
}

// compileWGSL lowers WGSL once, collects its compute entry points and
// generates SPIR-V words from the same module.
func compileWGSL(src string) (*compiledProgram, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: lower: %w", err)
	}
	verrs, err := naga.Validate(mod)
	if err != nil {
		return nil, fmt.Errorf("compile shader: validate: %w", err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("compile shader: validate: %w", &verrs[0])
	}
	entries, err := computeEntryPoints(mod)
	if err != nil {
		return nil, err
	}

	spirvBytes, err := naga.GenerateSPIRV(mod, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return &compiledProgram{code: code, entries: entries}, nil
}

// computeEntryPoints returns the compute stage entry points of a lowered
// module keyed by name.
func computeEntryPoints(mod *ir.Module) (map[string]entryPoint, error) {
	eps := make(map[string]entryPoint)
	for _, ep := range mod.EntryPoints {
		if ep.Stage != ir.StageCompute {
			continue
		}
		wg := ep.Workgroup
		if wg[0] == 0 || wg[1] == 0 || wg[2] == 0 {
			return nil, fmt.Errorf("entry point %q: work group size %v is not positive", ep.Name, wg)
		}
		eps[ep.Name] = entryPoint{name: ep.Name, wgX: wg[0], wgY: wg[1], wgZ: wg[2]}
	}
	return eps, nil
}
