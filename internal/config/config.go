// Package config layers conversion settings from defaults, an optional YAML
// file, VECTORIZE_ environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ironsheep/image-vectorize/internal/trace"
	"github.com/ironsheep/image-vectorize/internal/vectorize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "vectorize.yaml"

// EnvPrefix prefixes every environment override, e.g. VECTORIZE_FILTER_SPECKLE.
const EnvPrefix = "VECTORIZE"

// Config holds the settings of one run as they appear in the YAML file, the
// environment and on the command line. Enumerations stay strings until
// Vectorize parses them.
type Config struct {
	Input   string `mapstructure:"input"`
	Output  string `mapstructure:"output"`
	Preset  string `mapstructure:"preset"`
	LogMode string `mapstructure:"log_mode"`

	ColorMode       string  `mapstructure:"colormode"`
	Hierarchical    string  `mapstructure:"hierarchical"`
	Mode            string  `mapstructure:"mode"`
	FilterSpeckle   int     `mapstructure:"filter_speckle"`
	ColorPrecision  int     `mapstructure:"color_precision"`
	GradientStep    int     `mapstructure:"gradient_step"`
	CornerThreshold int     `mapstructure:"corner_threshold"`
	SegmentLength   float64 `mapstructure:"segment_length"`
	MaxIterations   int     `mapstructure:"max_iterations"`
	SpliceThreshold int     `mapstructure:"splice_threshold"`
	PathPrecision   int     `mapstructure:"path_precision"`
}

// flagKeys maps flag names to configuration keys.
var flagKeys = map[string]string{
	"input":            "input",
	"output":           "output",
	"preset":           "preset",
	"log-mode":         "log_mode",
	"colormode":        "colormode",
	"hierarchical":     "hierarchical",
	"mode":             "mode",
	"filter-speckle":   "filter_speckle",
	"color-precision":  "color_precision",
	"gradient-step":    "gradient_step",
	"corner-threshold": "corner_threshold",
	"segment-length":   "segment_length",
	"max-iterations":   "max_iterations",
	"splice-threshold": "splice_threshold",
	"path-precision":   "path_precision",
}

// NewFlagSet defines the command line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	d := vectorize.DefaultConfig()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.StringP("input", "i", "", "path to the input image")
	fs.StringP("output", "o", "", "path to the output SVG file")
	fs.String("config", "", "YAML configuration file (default "+DefaultFile+" if present)")
	fs.String("preset", "", "start from a preset: "+strings.Join(vectorize.Presets, ", "))
	fs.String("log-mode", "release", "logging mode: release or debug")

	fs.String("colormode", d.ColorMode.String(), "color or binary")
	fs.String("hierarchical", d.Hierarchical.String(), "stacked or cutout")
	fs.String("mode", d.Mode.String(), "curve fitting mode: pixel, polygon or spline")
	fs.IntP("filter-speckle", "f", d.FilterSpeckle, "discard patches smaller than X px in size")
	fs.IntP("color-precision", "p", d.ColorPrecision, "number of significant bits to use in a RGB channel")
	fs.IntP("gradient-step", "g", d.LayerDifference, "color difference between gradient layers")
	fs.IntP("corner-threshold", "c", d.CornerThreshold, "minimum momentary angle (in degrees) to be considered a corner")
	fs.Float64P("segment-length", "l", d.LengthThreshold, "perform iterative subdivide smooth until all segments are shorter than this length")
	fs.Int("max-iterations", d.MaxIterations, "maximum smoothing iterations")
	fs.IntP("splice-threshold", "s", d.SpliceThreshold, "minimum angle displacement (in degrees) to splice a spline")
	fs.Int("path-precision", d.PathPrecision, "number of decimal places to use in path string")
	return fs
}

// Load reads the configuration. An empty path reads DefaultFile when it
// exists; a named file must exist. Flags, when given, take precedence over
// the environment, which takes precedence over the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, vectorize.DefaultConfig())
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("preset", "")
	v.SetDefault("log_mode", "release")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// A preset replaces the built-in defaults; anything set explicitly still wins.
	if name := v.GetString("preset"); name != "" {
		p, err := vectorize.Preset(name)
		if err != nil {
			return nil, err
		}
		setDefaults(v, p)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// New loads DefaultFile if present, falling back to the built-in defaults.
func New() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the built-in defaults.
func Default() *Config {
	d := vectorize.DefaultConfig()
	return &Config{
		LogMode:         "release",
		ColorMode:       d.ColorMode.String(),
		Hierarchical:    d.Hierarchical.String(),
		Mode:            d.Mode.String(),
		FilterSpeckle:   d.FilterSpeckle,
		ColorPrecision:  d.ColorPrecision,
		GradientStep:    d.LayerDifference,
		CornerThreshold: d.CornerThreshold,
		SegmentLength:   d.LengthThreshold,
		MaxIterations:   d.MaxIterations,
		SpliceThreshold: d.SpliceThreshold,
		PathPrecision:   d.PathPrecision,
	}
}

func setDefaults(v *viper.Viper, d vectorize.Config) {
	v.SetDefault("colormode", d.ColorMode.String())
	v.SetDefault("hierarchical", d.Hierarchical.String())
	v.SetDefault("mode", d.Mode.String())
	v.SetDefault("filter_speckle", d.FilterSpeckle)
	v.SetDefault("color_precision", d.ColorPrecision)
	v.SetDefault("gradient_step", d.LayerDifference)
	v.SetDefault("corner_threshold", d.CornerThreshold)
	v.SetDefault("segment_length", d.LengthThreshold)
	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("splice_threshold", d.SpliceThreshold)
	v.SetDefault("path_precision", d.PathPrecision)
}

// Vectorize converts the loaded settings into conversion settings.
func (c *Config) Vectorize() (vectorize.Config, error) {
	colorMode, err := vectorize.ParseColorMode(c.ColorMode)
	if err != nil {
		return vectorize.Config{}, err
	}
	hierarchical, err := vectorize.ParseHierarchical(c.Hierarchical)
	if err != nil {
		return vectorize.Config{}, err
	}
	mode, err := trace.ParseMode(c.Mode)
	if err != nil {
		return vectorize.Config{}, err
	}

	return vectorize.Config{
		InputPath:       c.Input,
		OutputPath:      c.Output,
		ColorMode:       colorMode,
		Hierarchical:    hierarchical,
		FilterSpeckle:   c.FilterSpeckle,
		ColorPrecision:  c.ColorPrecision,
		LayerDifference: c.GradientStep,
		Mode:            mode,
		CornerThreshold: c.CornerThreshold,
		LengthThreshold: c.SegmentLength,
		MaxIterations:   c.MaxIterations,
		SpliceThreshold: c.SpliceThreshold,
		PathPrecision:   c.PathPrecision,
	}, nil
}

// ErrMissingPath is returned by Validate when input or output is empty.
var ErrMissingPath = errors.New("input and output paths are required")

// Validate checks that a conversion can run with these settings.
func (c *Config) Validate() error {
	if c.Input == "" || c.Output == "" {
		return ErrMissingPath
	}
	_, err := c.Vectorize()
	return err
}
