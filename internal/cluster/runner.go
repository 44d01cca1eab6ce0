package cluster

import (
	"runtime"
	"sync"

	"github.com/ironsheep/image-vectorize/internal/imaging"
	"github.com/ironsheep/image-vectorize/internal/logging"
	"go.uber.org/zap"
)

// Runner runs one segmentation pass over an image.
type Runner struct {
	config Config
	image  *imaging.Raster
}

// NewRunner creates a runner. The runner takes ownership of img; callers
// must not modify it afterwards.
func NewRunner(config Config, img *imaging.Raster) *Runner {
	return &Runner{config: config, image: img}
}

// Run segments the image.
func (r *Runner) Run() *Clusters {
	img := r.image
	w, h := img.Width, img.Height
	if w == 0 || h == 0 {
		return &Clusters{width: w, height: h}
	}

	q := quantize(img.Pix, r.config.IsSameColorA, r.config.BatchSize)
	b := r.config.IsSameColorB
	labels, comps := label(w, h, r.config.Diagonal, nil, func(i, j int) bool {
		for c := 0; c < 4; c++ {
			if absDiff(q[i*4+c], q[j*4+c]) >= b {
				return false
			}
		}
		return true
	})

	var out *Clusters
	if r.config.Hierarchical == 0 {
		out = flatClusters(w, h, comps, func(c []int) imaging.Color {
			return meanColor(img.Pix, c)
		})
	} else {
		out = mergeRegions(img, labels, comps, r.config)
	}

	logging.Logger.Debug("segmentation pass",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("diagonal", r.config.Diagonal),
		zap.Int("hierarchical", r.config.Hierarchical),
		zap.Int("components", len(comps)),
		zap.Int("clusters", len(out.clusters)))

	return out
}

// FromBinary labels the foreground components of img. Every cluster is
// filled black and the output order is scan order.
func FromBinary(img *imaging.BinaryImage, diagonal bool) *Clusters {
	w, h := img.Width, img.Height
	_, comps := label(w, h, diagonal,
		func(i int) bool { return img.Pix[i] },
		func(i, j int) bool { return true })
	return flatClusters(w, h, comps, func([]int) imaging.Color { return imaging.Black })
}

// quantize drops shift low bits from every channel. The buffer is split into
// batches of batchSize pixels shared out over one worker per CPU.
func quantize(pix []uint8, shift, batchSize int) []uint8 {
	out := make([]uint8, len(pix))
	n := len(pix) / 4
	if shift < 0 {
		shift = 0
	}
	if batchSize <= 0 {
		batchSize = n
	}
	batches := (n + batchSize - 1) / batchSize

	numWorkers := runtime.NumCPU()
	if numWorkers > batches {
		numWorkers = batches
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(first int) {
			defer wg.Done()
			for b := first; b < batches; b += numWorkers {
				start := b * batchSize * 4
				end := min(start+batchSize*4, len(pix))
				for i := start; i < end; i++ {
					out[i] = pix[i] >> shift
				}
			}
		}(w)
	}
	wg.Wait()
	return out
}

var (
	neighbours4 = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	neighbours8 = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
)

// label finds connected components in scan order using an iterative flood
// fill. Pixels rejected by include (when non-nil) get label -1. The pixel
// lists of the components are in fill order.
func label(w, h int, diagonal bool, include func(i int) bool, same func(i, j int) bool) ([]int32, [][]int) {
	labels := make([]int32, w*h)
	for i := range labels {
		labels[i] = -1
	}
	offsets := neighbours4
	if diagonal {
		offsets = neighbours8
	}

	var comps [][]int
	var stack []int
	for start := range labels {
		if labels[start] >= 0 || (include != nil && !include(start)) {
			continue
		}
		id := int32(len(comps))
		var pixels []int
		labels[start] = id
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pixels = append(pixels, i)

			x, y := i%w, i/w
			for _, o := range offsets {
				nx, ny := x+o[0], y+o[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				j := ny*w + nx
				if labels[j] >= 0 || (include != nil && !include(j)) || !same(i, j) {
					continue
				}
				labels[j] = id
				stack = append(stack, j)
			}
		}
		comps = append(comps, pixels)
	}
	return labels, comps
}

func flatClusters(w, h int, comps [][]int, residue func([]int) imaging.Color) *Clusters {
	out := &Clusters{
		width:    w,
		height:   h,
		clusters: make([]*Cluster, len(comps)),
		output:   make([]int, len(comps)),
	}
	for i, c := range comps {
		out.clusters[i] = newCluster(c, residue(c), 0, w)
		out.output[i] = i
	}
	return out
}

// meanColor returns the rounded mean color of the given pixels.
func meanColor(pix []uint8, indices []int) imaging.Color {
	var sum [4]int
	for _, i := range indices {
		p := pix[i*4 : i*4+4 : i*4+4]
		sum[0] += int(p[0])
		sum[1] += int(p[1])
		sum[2] += int(p[2])
		sum[3] += int(p[3])
	}
	return roundMean(sum, len(indices))
}

func roundMean(sum [4]int, count int) imaging.Color {
	if count == 0 {
		return imaging.Color{}
	}
	half := count / 2
	return imaging.Color{
		R: uint8((sum[0] + half) / count),
		G: uint8((sum[1] + half) / count),
		B: uint8((sum[2] + half) / count),
		A: uint8((sum[3] + half) / count),
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
