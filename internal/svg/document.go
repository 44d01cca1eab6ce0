// Package svg assembles traced paths into an SVG document.
//
// A Document is a canvas plus an ordered list of filled compound paths. The
// first path added is painted first, at the bottom. Each path is written
// relative to its first point, which becomes the element's translate offset,
// and its coordinates are rounded to the document's precision before
// curve.WriteSVG prints them.
package svg

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/image-vectorize/internal/imaging"
	"honnef.co/go/curve"
)

// Generator is written into the document header comment.
const Generator = "image-vectorize"

// Path is a filled compound path.
type Path struct {
	Path curve.BezPath
	Fill imaging.Color
}

// Document is a sized canvas holding paths in paint order.
type Document struct {
	Width     int
	Height    int
	Precision int // decimal places for coordinates

	paths []Path
}

// New creates an empty document.
func New(width, height, precision int) *Document {
	if precision < 0 {
		precision = 0
	}
	return &Document{Width: width, Height: height, Precision: precision}
}

// AddPath appends a path on top of those already added.
func (d *Document) AddPath(p curve.BezPath, fill imaging.Color) {
	d.paths = append(d.paths, Path{Path: p, Fill: fill})
}

// Len returns the number of paths.
func (d *Document) Len() int { return len(d.paths) }

// Paths returns the paths in paint order. The slice must not be modified.
func (d *Document) Paths() []Path { return d.paths }

// String serializes the document.
func (d *Document) String() string {
	var sb strings.Builder
	d.write(&errWriter{w: &sb})
	return sb.String()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	cw := &errWriter{w: bw}
	if err := d.write(cw); err != nil {
		return cw.n, err
	}
	return cw.n, bw.Flush()
}

// Save writes the document to the named file, creating or truncating it.
func (d *Document) Save(name string) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = d.WriteTo(f)
	return err
}

func (d *Document) write(ew *errWriter) error {
	io.WriteString(ew, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	io.WriteString(ew, "<!-- Generator: "+Generator+" -->\n")
	io.WriteString(ew, `<svg version="1.1" xmlns="http://www.w3.org/2000/svg" width="`+
		strconv.Itoa(d.Width)+`" height="`+strconv.Itoa(d.Height)+`">`+"\n")
	for _, p := range d.paths {
		rel, origin := relativePath(p.Path, d.Precision)
		io.WriteString(ew, `<path d="`)
		if err := rel.WriteSVG(ew, curve.SVGOptions{}); err != nil {
			return err
		}
		io.WriteString(ew, `" fill="`+p.Fill.Hex()+`" transform="translate(`+
			formatOffset(origin.X)+","+formatOffset(origin.Y)+`)"/>`+"\n")
	}
	io.WriteString(ew, "</svg>\n")
	return ew.err
}

// relativePath moves p so that its first point is the origin and rounds every
// coordinate to precision decimals. It returns the moved path and the original
// first point.
func relativePath(p curve.BezPath, precision int) (curve.BezPath, curve.Point) {
	var origin curve.Point
	if len(p) > 0 {
		origin = p[0].P0
	}
	rel := p.Transform(curve.Translate(curve.Vec(-origin.X, -origin.Y)))
	for i := range rel {
		rel[i].P0 = roundPoint(rel[i].P0, precision)
		rel[i].P1 = roundPoint(rel[i].P1, precision)
		rel[i].P2 = roundPoint(rel[i].P2, precision)
	}
	return rel, origin
}

func roundPoint(pt curve.Point, precision int) curve.Point {
	return curve.Pt(round(pt.X, precision), round(pt.Y, precision))
}

// round rounds v to precision decimals. Negative zero becomes zero.
func round(v float64, precision int) float64 {
	scale := math.Pow10(precision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

// formatOffset prints a translate offset in full.
func formatOffset(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.n += int64(n)
	e.err = err
	return n, err
}
