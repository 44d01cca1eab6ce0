// Package imaging provides the raster side of the vectorizer: decoding image
// files into flat RGBA buffers, the binary images used for thresholding and
// the 8-bit color type shared by the segmentation and output stages.
//
// # Raster Layout
//
// A Raster stores non-premultiplied RGBA pixels in row-major order, four bytes
// per pixel, with no row padding:
//   - len(Pix) == Width * Height * 4
//   - pixel (x, y) starts at offset (y*Width + x) * 4
//   - (0,0) is the top-left corner, X grows rightward, Y grows downward
//
// Rasters are never modified after decoding. Consumers that need a different
// image (for example a thresholded or re-colored one) build a new value.
//
// # Decoding
//
// Files are decoded with github.com/disintegration/imaging, honoring EXIF
// orientation. PNG, JPEG and GIF decoders come from the standard library; BMP,
// TIFF and WebP are registered from golang.org/x/image.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Rasters are immutable and
// may be shared between goroutines once loaded.
package imaging
