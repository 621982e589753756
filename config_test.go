// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texops

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/texops/backend"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want Config
	}{
		{
			name: "empty",
			toml: "",
			want: DefaultConfig(),
		},
		{
			name: "full",
			toml: `
backend = "software"
pool_capacity = 2
workers = 3
program_prefix = "custom"
log_level = "debug"
`,
			want: Config{
				Backend:       "software",
				PoolCapacity:  2,
				Workers:       3,
				ProgramPrefix: "custom",
				LogLevel:      "debug",
			},
		},
		{
			name: "partial keeps defaults",
			toml: `workers = 1`,
			want: Config{PoolCapacity: DefaultPoolCapacity, ProgramPrefix: DefaultProgramPrefix, Workers: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.toml))
			if err != nil {
				t.Fatalf("ParseConfig: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseConfig = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		toml     string
		contains []string
	}{
		{"syntax", `pool_capacity = `, []string{"parse config"}},
		{"wrong type", `workers = "many"`, []string{"parse config"}},
		{"negative", "pool_capacity = -1\nworkers = -2", []string{"pool_capacity -1", "workers -2"}},
		{"log level", `log_level = "loud"`, []string{"log_level"}},
		{"program dir", `program_dir = "/nonexistent/texops/programs"`, []string{"program_dir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.toml))
			if err == nil {
				t.Fatal("ParseConfig succeeded, want error")
			}
			for _, s := range tt.contains {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error %q does not mention %q", err, s)
				}
			}
		})
	}
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := Config{LogLevel: tt.in}.Level()
		if err != nil || got != tt.want {
			t.Errorf("Level(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestConfigProgramDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "math.wgsl")
	if err := os.WriteFile(file, []byte("// empty\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := (Config{ProgramDir: dir}).Validate(); err != nil {
		t.Errorf("Validate(dir) = %v, want nil", err)
	}
	if err := (Config{ProgramDir: file}).Validate(); err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("Validate(file) = %v, want not a directory", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texops.toml")
	if err := os.WriteFile(path, []byte("pool_capacity = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PoolCapacity != 0 || cfg.ProgramPrefix != DefaultProgramPrefix {
		t.Errorf("LoadConfig = %+v", cfg)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestOpen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = backend.BackendSoftware
	cfg.Workers = 2

	c, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !c.ownsDevice {
		t.Error("Open did not hand the device to the context")
	}
	if got := c.Device().Name(); got != backend.BackendSoftware {
		t.Errorf("device = %q, want %q", got, backend.BackendSoftware)
	}

	img := newFloatImage(t, c, 2, 2, nil)
	if err := c.Set(img, Vec4{1, 2, 3, 4}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	assertPixels(t, readPixels(t, c, img), uniform(4, Vec4{1, 2, 3, 4}), 0)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "nonexistent"
	if _, err := Open(cfg); !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Open = %v, want ErrBackendNotAvailable", err)
	}
}
