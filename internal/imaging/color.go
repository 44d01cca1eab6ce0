package imaging

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit, non-premultiplied RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Black is the fill used for foreground regions in binary mode.
var Black = Color{R: 0, G: 0, B: 0, A: 255}

// RGBA implements color.Color. Components are premultiplied as the
// interface requires.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A) * 0x101
	r = uint32(c.R) * 0x101 * a / 0xffff
	g = uint32(c.G) * 0x101 * a / 0xffff
	b = uint32(c.B) * 0x101 * a / 0xffff
	return r, g, b, a
}

// Colorful returns the color as a go-colorful value, ignoring alpha.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex formats the color as "#rrggbb". Alpha is not part of the output.
func (c Color) Hex() string {
	return c.Colorful().Hex()
}

// Distance returns the manhattan distance between the RGB components of
// two colors, in the range 0-765.
func (c Color) Distance(o Color) int {
	return absDiff(c.R, o.R) + absDiff(c.G, o.G) + absDiff(c.B, o.B)
}

// Luminance returns the relative luminance (0-1) computed in linear RGB.
func (c Color) Luminance() float64 {
	r, g, b := c.Colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortByBrightness orders colors from darkest to brightest. Colors with equal
// luminance keep their relative order.
func SortByBrightness(palette []Color) {
	slices.SortStableFunc(palette, func(a, b Color) int {
		la, lb := a.Luminance(), b.Luminance()
		if la < lb {
			return -1
		}
		if la > lb {
			return 1
		}
		return 0
	})
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
