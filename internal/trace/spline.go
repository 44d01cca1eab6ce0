package trace

import (
	"math"
	"slices"

	"honnef.co/go/curve"
)

const (
	// splineAccuracy is the fitting tolerance handed to curve.Simplify, in pixels.
	splineAccuracy = 0.5

	// minSegmentLength keeps smoothing from subdividing forever when the
	// configured length threshold is zero or negative.
	minSegmentLength = 0.5
)

// appendSpline smooths a closed polygon and appends it to path as a fitted
// sequence of cubic Béziers.
func appendSpline(path *curve.BezPath, pts []curve.Point, p Params) {
	if len(pts) < 3 {
		appendPolygon(path, pts)
		return
	}
	smoothed := smooth(pts, p)

	els := make([]curve.PathElement, 0, len(smoothed)+2)
	els = append(els, curve.MoveTo(smoothed[0]))
	for _, pt := range smoothed[1:] {
		els = append(els, curve.LineTo(pt))
	}
	els = append(els, curve.LineTo(smoothed[0]), curve.ClosePath())

	opts := curve.SimplifyOptions{
		AngleThresh: spliceTangent(p.SpliceThreshold),
		OptLevel:    curve.Subdivide,
	}
	for el := range curve.Simplify(slices.Values(els), splineAccuracy, opts) {
		path.Push(el)
	}
}

// spliceTangent converts the splice angle into the tangent ratio curve.Simplify
// compares against. Angles of 90° or more never split.
func spliceTangent(angle float64) float64 {
	if angle >= math.Pi/2 {
		return math.Inf(1)
	}
	if angle <= 0 {
		return 0
	}
	return math.Tan(angle)
}

// smooth refines a closed polygon with four-point interpolatory subdivision.
// Every round splits edges longer than the length threshold; vertices whose
// turn reaches the corner threshold stay sharp because edges next to them are
// split at their plain midpoint.
func smooth(pts []curve.Point, p Params) []curve.Point {
	limit := p.LengthThreshold
	if limit < minSegmentLength {
		limit = minSegmentLength
	}

	n := len(pts)
	corner := make([]bool, n)
	for i := range pts {
		corner[i] = turnAngle(pts[(i+n-1)%n], pts[i], pts[(i+1)%n]) >= p.CornerThreshold
	}

	for iter := 0; iter < p.MaxIterations; iter++ {
		n = len(pts)
		next := make([]curve.Point, 0, 2*n)
		nextCorner := make([]bool, 0, 2*n)
		split := false
		for i := range pts {
			j := (i + 1) % n
			next = append(next, pts[i])
			nextCorner = append(nextCorner, corner[i])
			if pts[i].Distance(pts[j]) <= limit {
				continue
			}
			split = true
			var mid curve.Point
			if corner[i] || corner[j] {
				mid = pts[i].Midpoint(pts[j])
			} else {
				a := pts[(i+n-1)%n]
				d := pts[(j+1)%n]
				mid = curve.Pt(
					(-a.X+9*pts[i].X+9*pts[j].X-d.X)/16,
					(-a.Y+9*pts[i].Y+9*pts[j].Y-d.Y)/16,
				)
			}
			next = append(next, mid)
			nextCorner = append(nextCorner, false)
		}
		pts, corner = next, nextCorner
		if !split {
			break
		}
	}
	return pts
}
