package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/image-vectorize/internal/logging"
	"github.com/ironsheep/image-vectorize/internal/trace"
	"github.com/ironsheep/image-vectorize/internal/vectorize"
	"go.uber.org/zap/zapcore"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vectorize.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_FallsBackToDefaults(t *testing.T) {
	if diff := cmp.Diff(Default(), New()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfigFile(t, `
input: in.png
output: out.svg
colormode: binary
filter_speckle: 8
segment_length: 6.5
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.Input = "in.png"
	want.Output = "out.svg"
	want.ColorMode = "binary"
	want.FilterSpeckle = 8
	want.SegmentLength = 6.5
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PresetWithOverride(t *testing.T) {
	path := writeConfigFile(t, `
preset: photo
filter_speckle: 3
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FilterSpeckle != 3 {
		t.Errorf("explicit filter_speckle: got %d, want 3", cfg.FilterSpeckle)
	}
	if cfg.GradientStep != 48 {
		t.Errorf("preset gradient_step: got %d, want 48", cfg.GradientStep)
	}
	if cfg.CornerThreshold != 180 {
		t.Errorf("preset corner_threshold: got %d, want 180", cfg.CornerThreshold)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("VECTORIZE_COLOR_PRECISION", "7")
	t.Setenv("VECTORIZE_HIERARCHICAL", "cutout")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ColorPrecision != 7 {
		t.Errorf("color_precision: got %d, want 7", cfg.ColorPrecision)
	}
	if cfg.Hierarchical != "cutout" {
		t.Errorf("hierarchical: got %s, want cutout", cfg.Hierarchical)
	}
}

func TestLoad_FlagsOverrideEnvAndFile(t *testing.T) {
	t.Setenv("VECTORIZE_COLOR_PRECISION", "7")
	path := writeConfigFile(t, "mode: pixel\nmax_iterations: 3\n")

	fs := NewFlagSet("test")
	if err := fs.Parse([]string{"-p", "5", "--mode", "polygon", "-i", "a.png"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load(path, fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ColorPrecision != 5 {
		t.Errorf("color_precision: got %d, want 5", cfg.ColorPrecision)
	}
	if cfg.Mode != "polygon" {
		t.Errorf("mode: got %s, want polygon", cfg.Mode)
	}
	if cfg.MaxIterations != 3 {
		t.Errorf("max_iterations from file: got %d, want 3", cfg.MaxIterations)
	}
	if cfg.Input != "a.png" {
		t.Errorf("input: got %s, want a.png", cfg.Input)
	}
}

func TestLoad_UnchangedFlagsKeepPreset(t *testing.T) {
	fs := NewFlagSet("test")
	if err := fs.Parse([]string{"--preset", "bw"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ColorMode != "binary" {
		t.Errorf("colormode: got %s, want binary", cfg.ColorMode)
	}
	if cfg.PathPrecision != 8 {
		t.Errorf("path_precision: got %d, want 8", cfg.PathPrecision)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.yaml")},
		{"malformed file", writeConfigFile(t, "filter_speckle: [1, 2\n")},
		{"unknown preset", writeConfigFile(t, "preset: sketch\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path, nil); err == nil {
				t.Errorf("Load(%s) should fail", tt.path)
			}
		})
	}
}

func TestConfig_Vectorize(t *testing.T) {
	cfg := Default()
	cfg.Input = "in.png"
	cfg.Output = "out.svg"
	cfg.Hierarchical = "cutout"
	cfg.Mode = "polygon"
	cfg.GradientStep = 0

	got, err := cfg.Vectorize()
	if err != nil {
		t.Fatalf("Vectorize failed: %v", err)
	}

	want := vectorize.DefaultConfig()
	want.InputPath = "in.png"
	want.OutputPath = "out.svg"
	want.Hierarchical = vectorize.Cutout
	want.Mode = trace.ModePolygon
	want.LayerDifference = 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_VectorizeInvalid(t *testing.T) {
	tests := []func(*Config){
		func(c *Config) { c.ColorMode = "sepia" },
		func(c *Config) { c.Hierarchical = "nested" },
		func(c *Config) { c.Mode = "bezier" },
	}
	for i, mutate := range tests {
		cfg := Default()
		mutate(cfg)
		if _, err := cfg.Vectorize(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); !errors.Is(err, ErrMissingPath) {
		t.Errorf("Validate without paths: got %v, want ErrMissingPath", err)
	}

	cfg.Input, cfg.Output = "in.png", "out.svg"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: unexpected error %v", err)
	}
}

func TestLoad_LogModeDefaultsToRelease(t *testing.T) {
	fs := NewFlagSet("test")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogMode != "release" {
		t.Fatalf("log_mode: got %s, want release", cfg.LogMode)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		t.Fatalf("logging.New failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default CLI logger should not emit debug entries")
	}
}
