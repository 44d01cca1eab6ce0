// Package cluster partitions a raster into connected regions of similar color
// and arranges them into a layer hierarchy.
//
// # Passes
//
// A Runner performs one segmentation pass:
//
//  1. Every channel is quantized by dropping IsSameColorA low bits. Pixels are
//     processed in batches of BatchSize spread over runtime.NumCPU() workers.
//  2. Connected components are labelled with an iterative flood fill, using
//     4- or 8-connectivity. Neighbouring pixels are the same color when each
//     quantized channel differs by less than IsSameColorB.
//  3. With Hierarchical == 0 the components are returned as-is. Otherwise the
//     smallest region is repeatedly merged into its closest-colored neighbour.
//     A merged region that is large enough and far enough in color becomes a
//     layer of its own; anything else is absorbed into the neighbour.
//
// # Output order
//
// View.ClustersOutput lists clusters front-most first: the background comes
// last. Painting therefore walks the list in reverse.
//
// # Stacked and hollow layers
//
// With HollowNeighbours > 0 a parent's shape includes its children, so layers
// stack on top of each other. With HollowNeighbours == 0 parents keep holes
// where their children are, every pixel belongs to exactly one cluster, and
// clusters of identical color are coalesced.
package cluster
