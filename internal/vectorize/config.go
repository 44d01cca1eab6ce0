package vectorize

import (
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/image-vectorize/internal/cluster"
	"github.com/ironsheep/image-vectorize/internal/trace"
)

// ColorMode selects the conversion pipeline.
type ColorMode int

const (
	// Color segments the image into colored layers.
	Color ColorMode = iota
	// Binary traces the dark pixels as black shapes.
	Binary
)

func (m ColorMode) String() string {
	switch m {
	case Color:
		return "color"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("ColorMode(%d)", int(m))
}

// ParseColorMode parses "color", "binary" or "bw".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "color", "colour":
		return Color, nil
	case "binary", "bw":
		return Binary, nil
	}
	return 0, fmt.Errorf("unknown color mode: %q", s)
}

// Hierarchical selects how color layers are arranged.
type Hierarchical int

const (
	// Stacked keeps every layer; upper layers are drawn on top of larger
	// shapes beneath them.
	Stacked Hierarchical = iota
	// Cutout flattens the layers into non-overlapping shapes.
	Cutout
)

func (h Hierarchical) String() string {
	switch h {
	case Stacked:
		return "stacked"
	case Cutout:
		return "cutout"
	}
	return fmt.Sprintf("Hierarchical(%d)", int(h))
}

// ParseHierarchical parses "stacked" or "cutout".
func ParseHierarchical(s string) (Hierarchical, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stacked":
		return Stacked, nil
	case "cutout":
		return Cutout, nil
	}
	return 0, fmt.Errorf("unknown hierarchical mode: %q", s)
}

// Config holds the user-facing conversion settings.
type Config struct {
	InputPath  string
	OutputPath string

	ColorMode    ColorMode
	Hierarchical Hierarchical

	// FilterSpeckle discards regions smaller than FilterSpeckle x FilterSpeckle pixels.
	FilterSpeckle int

	// ColorPrecision is the number of significant bits kept per channel (1-8).
	ColorPrecision int

	// LayerDifference is the color distance between gradient layers. Zero
	// also enables diagonal connectivity.
	LayerDifference int

	Mode trace.Mode

	// CornerThreshold is the minimum angle, in degrees, kept as a corner.
	CornerThreshold int

	// LengthThreshold is the segment length smoothing subdivides down to.
	LengthThreshold float64

	MaxIterations int

	// SpliceThreshold is the minimum angle, in degrees, that splits a spline.
	SpliceThreshold int

	// PathPrecision is the number of decimal places in path coordinates.
	PathPrecision int
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		ColorMode:       Color,
		Hierarchical:    Stacked,
		FilterSpeckle:   4,
		ColorPrecision:  6,
		LayerDifference: 16,
		Mode:            trace.ModeSpline,
		CornerThreshold: 60,
		LengthThreshold: 4.0,
		MaxIterations:   10,
		SpliceThreshold: 45,
		PathPrecision:   2,
	}
}

// Presets lists the names accepted by Preset.
var Presets = []string{"bw", "poster", "photo"}

// Preset returns the settings of a named preset.
func Preset(name string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bw":
		cfg.ColorMode = Binary
		cfg.PathPrecision = 8
	case "poster":
		cfg.ColorPrecision = 8
		cfg.PathPrecision = 8
	case "photo":
		cfg.FilterSpeckle = 10
		cfg.ColorPrecision = 8
		cfg.LayerDifference = 48
		cfg.CornerThreshold = 180
		cfg.PathPrecision = 8
	default:
		return Config{}, fmt.Errorf("unknown preset: %q", name)
	}
	return cfg, nil
}

// ConverterConfig is a resolved Config, in the units the pipelines use.
type ConverterConfig struct {
	InputPath  string
	OutputPath string

	ColorMode    ColorMode
	Hierarchical Hierarchical

	FilterSpeckleArea  int
	ColorPrecisionLoss int
	LayerDifference    int
	PathPrecision      int

	Trace trace.Params
}

// Resolve normalizes the settings. Negative values become zero and the color
// precision is clamped to 1-8 bits.
func (c Config) Resolve() ConverterConfig {
	speckle := max(c.FilterSpeckle, 0)
	precision := min(max(c.ColorPrecision, 1), 8)

	return ConverterConfig{
		InputPath:          c.InputPath,
		OutputPath:         c.OutputPath,
		ColorMode:          c.ColorMode,
		Hierarchical:       c.Hierarchical,
		FilterSpeckleArea:  speckle * speckle,
		ColorPrecisionLoss: 8 - precision,
		LayerDifference:    max(c.LayerDifference, 0),
		PathPrecision:      max(c.PathPrecision, 0),
		Trace: trace.Params{
			Mode:            c.Mode,
			CornerThreshold: degToRad(max(c.CornerThreshold, 0)),
			LengthThreshold: math.Max(c.LengthThreshold, 0),
			MaxIterations:   max(c.MaxIterations, 0),
			SpliceThreshold: degToRad(max(c.SpliceThreshold, 0)),
		},
	}
}

const passBatchSize = 25600

// FirstPass returns the segmentation parameters applied to the source image.
func (c ConverterConfig) FirstPass(width, height int) cluster.Config {
	return cluster.Config{
		Diagonal:         c.LayerDifference == 0,
		Hierarchical:     cluster.HierarchicalMax,
		BatchSize:        passBatchSize,
		GoodMinArea:      c.FilterSpeckleArea,
		GoodMaxArea:      width * height,
		IsSameColorA:     c.ColorPrecisionLoss,
		IsSameColorB:     1,
		DeepenDiff:       c.LayerDifference,
		HollowNeighbours: 1,
	}
}

// CutoutPass returns the segmentation parameters of the second, flattening
// pass run in cutout mode.
func (c ConverterConfig) CutoutPass(width, height int) cluster.Config {
	return cluster.Config{
		Diagonal:         false,
		Hierarchical:     64,
		BatchSize:        passBatchSize,
		GoodMinArea:      0,
		GoodMaxArea:      width * height,
		IsSameColorA:     0,
		IsSameColorB:     1,
		DeepenDiff:       0,
		HollowNeighbours: 0,
	}
}

func degToRad(deg int) float64 {
	return float64(deg) * math.Pi / 180
}
