package cluster

import "math"

// HierarchicalMax allows an unbounded layer hierarchy.
const HierarchicalMax = math.MaxInt32

// Config holds the parameters of one segmentation pass.
type Config struct {
	// Diagonal enables 8-connectivity when labelling components.
	Diagonal bool

	// Hierarchical is the depth up to which child layers fold into their
	// parent's shape. Zero disables merging altogether.
	Hierarchical int

	// BatchSize is the number of pixels quantized per unit of work.
	BatchSize int

	// GoodMinArea is the minimum area for a merged region to stay a layer.
	GoodMinArea int

	// GoodMaxArea stops regions larger than this from being merged further.
	GoodMaxArea int

	// IsSameColorA is the number of low bits dropped from every channel.
	IsSameColorA int

	// IsSameColorB is the per-channel difference, after quantization, below
	// which two pixels are the same color.
	IsSameColorB int

	// DeepenDiff is the minimum color distance for a merged region to stay a
	// layer.
	DeepenDiff int

	// HollowNeighbours selects stacked (> 0) or hollow (0) parent shapes.
	HollowNeighbours int
}
