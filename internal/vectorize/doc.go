// Package vectorize converts raster images into SVG documents.
//
// A conversion resolves a user-facing Config into pass parameters, loads the
// image, runs either the color or the binary pipeline and assembles the
// traced paths into an svg.Document.
//
// # Color pipeline
//
// The image is segmented into a layer hierarchy. In stacked mode the layers
// are traced as segmented, each parent including the area beneath its
// children. In cutout mode the layered result is painted back into a flat
// image which is segmented a second time, giving one non-overlapping path
// per color. A cutout path may therefore cover several disconnected regions
// and is written as one compound path with a sub-path per outline. Clusters
// are painted in reverse output order, so the background comes first.
//
// # Binary pipeline
//
// Pixels whose red channel is below 128 are foreground. Foreground regions
// at least FilterSpeckle² pixels in size are traced in black, in scan order.
//
// # Errors
//
// Load failures wrap ErrInputUnreadable and write failures wrap
// ErrOutputNotWritable; test for them with errors.Is. ConvertInMemory and
// ConvertDocument never touch the filesystem.
package vectorize
