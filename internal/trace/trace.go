// Package trace turns the pixel mask of a region into a compound vector path.
//
// The outline of the mask is walked along pixel edges, producing one closed
// loop per boundary: outer boundaries run clockwise and holes run
// counter-clockwise (in image coordinates, Y down), so the result fills
// correctly under the nonzero rule. Each loop is then emitted as-is (pixel
// mode), reduced to a polygon, or smoothed and fitted with cubic Béziers.
package trace

import (
	"fmt"
	"image"
	"math"
	"slices"
	"strings"

	"github.com/ironsheep/image-vectorize/internal/imaging"
	"honnef.co/go/curve"
)

// Mode selects how boundary loops are simplified.
type Mode int

const (
	// ModePixel keeps the exact pixel staircase, only dropping collinear points.
	ModePixel Mode = iota
	// ModePolygon removes staircases and straightens edges.
	ModePolygon
	// ModeSpline smooths the polygon and fits cubic Bézier curves to it.
	ModeSpline
)

func (m Mode) String() string {
	switch m {
	case ModePixel:
		return "pixel"
	case ModePolygon:
		return "polygon"
	case ModeSpline:
		return "spline"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "pixel", "none", "polygon" or "spline" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pixel", "none":
		return ModePixel, nil
	case "polygon":
		return ModePolygon, nil
	case "spline":
		return ModeSpline, nil
	}
	return 0, fmt.Errorf("unknown path mode: %q", s)
}

// Params are the curve fitting parameters. Angles are in radians.
type Params struct {
	Mode Mode

	// CornerThreshold is the minimum turn at a vertex for it to be kept as
	// a sharp corner during smoothing.
	CornerThreshold float64

	// LengthThreshold is the segment length smoothing subdivides down to.
	LengthThreshold float64

	// MaxIterations bounds the number of smoothing rounds.
	MaxIterations int

	// SpliceThreshold is the minimum tangent change at which a spline is
	// split into separately fitted pieces.
	SpliceThreshold float64
}

// Trace outlines the foreground of mask and returns it as a compound path.
// Coordinates are translated by offset, which is the position of the mask's
// top-left pixel in the full image. An empty mask yields an empty path.
func Trace(mask *imaging.BinaryImage, offset image.Point, p Params) curve.BezPath {
	var path curve.BezPath
	for _, loop := range Outlines(mask) {
		pts := toPoints(loop, offset)
		switch p.Mode {
		case ModePolygon:
			appendPolygon(&path, simplifyPolygon(pts))
		case ModeSpline:
			appendSpline(&path, simplifyPolygon(pts), p)
		default:
			appendPolygon(&path, pts)
		}
	}
	return path
}

func toPoints(loop []image.Point, offset image.Point) []curve.Point {
	pts := make([]curve.Point, len(loop))
	for i, v := range loop {
		pts[i] = curve.Pt(float64(v.X+offset.X), float64(v.Y+offset.Y))
	}
	return pts
}

func appendPolygon(path *curve.BezPath, pts []curve.Point) {
	if len(pts) < 2 {
		return
	}
	path.MoveTo(pts[0])
	for _, pt := range pts[1:] {
		path.LineTo(pt)
	}
	path.ClosePath()
}

// turnAngle returns the absolute change of direction at b, in radians
// (0 = straight on, π = reversal).
func turnAngle(a, b, c curve.Point) float64 {
	in := b.Sub(a)
	out := c.Sub(b)
	if in.Hypot2() == 0 || out.Hypot2() == 0 {
		return 0
	}
	return math.Abs(math.Atan2(in.Cross(out), in.Dot(out)))
}

// Loops splits a compound path into its closed sub-paths. It is the inverse
// of the way Trace assembles paths and is mostly useful to callers that count
// or inspect individual boundaries.
func Loops(path curve.BezPath) []curve.BezPath {
	var loops []curve.BezPath
	start := -1
	for i, el := range path {
		switch el.Kind {
		case curve.MoveToKind:
			start = i
		case curve.ClosePathKind:
			if start >= 0 {
				loops = append(loops, slices.Clone(path[start:i+1]))
				start = -1
			}
		}
	}
	return loops
}
