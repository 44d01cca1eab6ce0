package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Raster is a decoded image held as a flat, non-premultiplied RGBA buffer.
type Raster struct {
	Pix    []uint8 // RGBA, 4 bytes per pixel, row-major, no padding
	Width  int
	Height int
}

// NewRaster allocates a fully transparent raster of the given size.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// FromImage converts any image.Image into a Raster.
//
// The source is cloned into an NRGBA image anchored at (0,0), so images with a
// non-zero bounds origin or premultiplied color models are normalized. The
// returned raster owns its buffer.
func FromImage(img image.Image) *Raster {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Raster{
		Pix:    nrgba.Pix,
		Width:  b.Dx(),
		Height: b.Dy(),
	}
}

// Bounds returns the raster rectangle, always anchored at the origin.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Area returns the number of pixels in the raster.
func (r *Raster) Area() int {
	return r.Width * r.Height
}

// At returns the color at (x, y). Out-of-range coordinates yield the zero Color.
func (r *Raster) At(x, y int) Color {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return Color{}
	}
	i := (y*r.Width + x) * 4
	return Color{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// Set writes the color at (x, y). Out-of-range coordinates are ignored.
func (r *Raster) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	i := (y*r.Width + x) * 4
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
	r.Pix[i+3] = c.A
}

// Binarize classifies every pixel with fn and returns the resulting mask.
func (r *Raster) Binarize(fn func(Color) bool) *BinaryImage {
	out := NewBinaryImage(r.Width, r.Height)
	for i := range out.Pix {
		p := i * 4
		out.Pix[i] = fn(Color{R: r.Pix[p], G: r.Pix[p+1], B: r.Pix[p+2], A: r.Pix[p+3]})
	}
	return out
}

// BinaryImage is a two-valued image; true marks a foreground pixel.
type BinaryImage struct {
	Pix    []bool // row-major, len == Width*Height
	Width  int
	Height int
}

// NewBinaryImage allocates an all-background binary image.
func NewBinaryImage(width, height int) *BinaryImage {
	return &BinaryImage{
		Pix:    make([]bool, width*height),
		Width:  width,
		Height: height,
	}
}

// Get reports whether (x, y) is foreground. Pixels outside the image are background.
func (b *BinaryImage) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x]
}

// Set marks (x, y). Out-of-range coordinates are ignored.
func (b *BinaryImage) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	b.Pix[y*b.Width+x] = v
}

// Count returns the number of foreground pixels.
func (b *BinaryImage) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v {
			n++
		}
	}
	return n
}
