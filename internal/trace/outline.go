package trace

import (
	"image"

	"github.com/ironsheep/image-vectorize/internal/imaging"
)

// Edge directions on the pixel-corner lattice, clockwise in image space.
const (
	dirRight = iota
	dirDown
	dirLeft
	dirUp
)

var dirStep = [4]image.Point{
	dirRight: {1, 0},
	dirDown:  {0, 1},
	dirLeft:  {-1, 0},
	dirUp:    {0, -1},
}

// Outlines walks the boundary of the foreground of mask and returns one
// closed loop of lattice vertices per boundary. Vertex (x, y) is the top-left
// corner of pixel (x, y). Only corners are returned; collinear vertices are
// dropped.
//
// Outer boundaries are clockwise and holes counter-clockwise. Where two
// foreground pixels touch only diagonally, the walk turns right, so such
// pixels end up in separate loops.
func Outlines(mask *imaging.BinaryImage) [][]image.Point {
	w, h := mask.Width, mask.Height
	if w == 0 || h == 0 {
		return nil
	}
	stride := w + 1
	out := make([]uint8, stride*(h+1))  // outgoing edge bits per vertex
	used := make([]uint8, stride*(h+1)) // consumed edge bits per vertex

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !mask.Get(x, y) {
				continue
			}
			if !mask.Get(x, y-1) {
				out[y*stride+x] |= 1 << dirRight
			}
			if !mask.Get(x+1, y) {
				out[y*stride+x+1] |= 1 << dirDown
			}
			if !mask.Get(x, y+1) {
				out[(y+1)*stride+x+1] |= 1 << dirLeft
			}
			if !mask.Get(x-1, y) {
				out[(y+1)*stride+x] |= 1 << dirUp
			}
		}
	}

	var loops [][]image.Point
	for v := range out {
		for d := 0; d < 4; d++ {
			bit := uint8(1) << d
			if out[v]&bit == 0 || used[v]&bit != 0 {
				continue
			}
			loops = append(loops, walk(out, used, stride, v, d))
		}
	}
	return loops
}

// walk follows edges from vertex v in direction d until the loop closes.
func walk(out, used []uint8, stride, v, d int) []image.Point {
	var loop []image.Point
	start := image.Pt(v%stride, v/stride)
	pos := start
	dir := d
	for {
		used[pos.Y*stride+pos.X] |= 1 << dir
		pos = pos.Add(dirStep[dir])

		next := nextDir(out[pos.Y*stride+pos.X], dir)
		if next != dir {
			loop = append(loop, pos)
		}
		if used[pos.Y*stride+pos.X]&(1<<next) != 0 {
			break
		}
		dir = next
	}
	// The last appended corner is where the walk re-entered the start edge;
	// rotate so the loop begins at the first vertex of the start edge when it
	// is a corner.
	if n := len(loop); n > 0 && loop[n-1] == start {
		loop = append([]image.Point{start}, loop[:n-1]...)
	}
	return loop
}

// nextDir picks the outgoing edge at a vertex reached travelling in dir:
// right turn first, then straight on, then left.
func nextDir(edges uint8, dir int) int {
	for _, turn := range [3]int{1, 0, 3} {
		nd := (dir + turn) % 4
		if edges&(1<<nd) != 0 {
			return nd
		}
	}
	return dir
}
