package cluster

import (
	"image"
	"math"

	"github.com/ironsheep/image-vectorize/internal/imaging"
	"github.com/ironsheep/image-vectorize/internal/trace"
	"honnef.co/go/curve"
)

// Cluster is one region produced by a segmentation pass.
type Cluster struct {
	indices []int // pixel indices covered by the cluster's shape
	rect    image.Rectangle
	residue imaging.Color
	level   int
	width   int
}

func newCluster(indices []int, residue imaging.Color, level, width int) *Cluster {
	c := &Cluster{indices: indices, residue: residue, level: level, width: width}
	c.rect = c.bounds()
	return c
}

// Area returns the number of pixels covered by the cluster.
func (c *Cluster) Area() int { return len(c.indices) }

// ResidueColor returns the fill color of the cluster.
func (c *Cluster) ResidueColor() imaging.Color { return c.residue }

// Mask renders the cluster into a binary image the size of its bounding box.
// The returned point is the image position of the mask's origin.
func (c *Cluster) Mask() (*imaging.BinaryImage, image.Point) {
	mask := imaging.NewBinaryImage(c.rect.Dx(), c.rect.Dy())
	for _, i := range c.indices {
		mask.Set(i%c.width-c.rect.Min.X, i/c.width-c.rect.Min.Y, true)
	}
	return mask, c.rect.Min
}

// ToCompoundPath traces the outline of the cluster in image coordinates.
func (c *Cluster) ToCompoundPath(p trace.Params) curve.BezPath {
	mask, offset := c.Mask()
	return trace.Trace(mask, offset, p)
}

func (c *Cluster) absorb(o *Cluster) {
	c.indices = append(c.indices, o.indices...)
	c.rect = c.rect.Union(o.rect)
}

func (c *Cluster) bounds() image.Rectangle {
	if len(c.indices) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := -1, -1
	for _, i := range c.indices {
		x, y := i%c.width, i/c.width
		minX = min(minX, x)
		maxX = max(maxX, x)
		minY = min(minY, y)
		maxY = max(maxY, y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Clusters is the result of one segmentation pass.
type Clusters struct {
	width, height int
	clusters      []*Cluster
	output        []int
}

// Len returns the number of clusters.
func (cs *Clusters) Len() int { return len(cs.clusters) }

// View returns the hierarchy view of the pass.
func (cs *Clusters) View() *View {
	return &View{
		Width:          cs.width,
		Height:         cs.height,
		Clusters:       cs.clusters,
		ClustersOutput: cs.output,
	}
}

// View exposes the clusters of a pass together with their output order.
type View struct {
	Width, Height int

	// Clusters holds every cluster, indexed by id.
	Clusters []*Cluster

	// ClustersOutput lists cluster ids front-most first.
	ClustersOutput []int
}

// Cluster returns the cluster with the given id.
func (v *View) Cluster(id int) *Cluster {
	return v.Clusters[id]
}

// ToColorImage paints every cluster in its residue color, back to front,
// into a new raster the size of the segmented image.
func (v *View) ToColorImage() *imaging.Raster {
	img := imaging.NewRaster(v.Width, v.Height)
	for i := len(v.ClustersOutput) - 1; i >= 0; i-- {
		c := v.Clusters[v.ClustersOutput[i]]
		col := c.residue
		for _, p := range c.indices {
			img.Pix[p*4] = col.R
			img.Pix[p*4+1] = col.G
			img.Pix[p*4+2] = col.B
			img.Pix[p*4+3] = col.A
		}
	}
	return img
}
