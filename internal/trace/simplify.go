package trace

import (
	"honnef.co/go/curve"
)

// polygonTolerance is the maximum distance, in pixels, a removed vertex may
// lie from the simplified outline.
const polygonTolerance = 0.5

// simplifyPolygon removes pixel staircases from a closed loop of corners and
// straightens the result. Loops that would collapse below a triangle are
// returned unchanged.
func simplifyPolygon(pts []curve.Point) []curve.Point {
	if len(pts) < 4 {
		return pts
	}
	out := reduceClosed(removeStaircase(pts), polygonTolerance)
	if len(out) < 3 {
		return pts
	}
	return out
}

// removeStaircase replaces every vertex touching a stair step with the
// midpoints of its two edges. A stair step is a unit-length edge whose two
// ends turn in opposite directions; a unit edge turning the same way at both
// ends is the cap of a thin feature and keeps its corners.
func removeStaircase(pts []curve.Point) []curve.Point {
	n := len(pts)
	turn := make([]float64, n)
	for i := range pts {
		in := pts[i].Sub(pts[(i+n-1)%n])
		out := pts[(i+1)%n].Sub(pts[i])
		turn[i] = in.Cross(out)
	}
	stair := make([]bool, n) // edge i runs from pts[i] to pts[i+1]
	for i := range pts {
		j := (i + 1) % n
		stair[i] = pts[i].Distance(pts[j]) <= 1 && turn[i]*turn[j] < 0
	}

	out := make([]curve.Point, 0, 2*n)
	push := func(p curve.Point) {
		if len(out) > 0 && out[len(out)-1] == p {
			return
		}
		out = append(out, p)
	}
	for i := range pts {
		prev := pts[(i+n-1)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		if !stair[(i+n-1)%n] && !stair[i] {
			push(cur)
			continue
		}
		push(prev.Midpoint(cur))
		push(cur.Midpoint(next))
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// reduceClosed runs Douglas-Peucker on a closed loop, anchored at the first
// point and the point farthest from it.
func reduceClosed(pts []curve.Point, tolerance float64) []curve.Point {
	n := len(pts)
	if n < 4 {
		return pts
	}
	far, farDist := 0, -1.0
	for i, p := range pts {
		if d := p.DistanceSquared(pts[0]); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return pts[:1]
	}

	keep := make([]bool, n)
	keep[0], keep[far] = true, true
	markKept(pts, 0, far, tolerance, keep)

	// Second half wraps around to the first point.
	tail := append(append([]curve.Point{}, pts[far:]...), pts[0])
	tailKeep := make([]bool, len(tail))
	markKept(tail, 0, len(tail)-1, tolerance, tailKeep)
	for i := 1; i < len(tail)-1; i++ {
		if tailKeep[i] {
			keep[far+i] = true
		}
	}

	out := make([]curve.Point, 0, n)
	for i, p := range pts {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

func markKept(pts []curve.Point, lo, hi int, tolerance float64, keep []bool) {
	if hi-lo < 2 {
		return
	}
	idx, maxDist := -1, tolerance
	for i := lo + 1; i < hi; i++ {
		if d := pointLineDistance(pts[i], pts[lo], pts[hi]); d > maxDist {
			idx, maxDist = i, d
		}
	}
	if idx < 0 {
		return
	}
	keep[idx] = true
	markKept(pts, lo, idx, tolerance, keep)
	markKept(pts, idx, hi, tolerance, keep)
}

func pointLineDistance(p, a, b curve.Point) float64 {
	ab := b.Sub(a)
	l := ab.Hypot()
	if l == 0 {
		return p.Distance(a)
	}
	return abs(ab.Cross(p.Sub(a))) / l
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
