package cluster

import (
	"container/heap"

	"github.com/ironsheep/image-vectorize/internal/imaging"
)

// region is a node of the region adjacency graph while merging.
type region struct {
	own      []int       // pixels painted with this region's color
	sum      [4]int      // channel sums over own
	area     int         // own pixels plus everything merged into the region
	border   map[int]int // neighbour region -> shared edge length
	children []int       // regions emitted as layers on top of this one
	emitted  bool
	done     bool
}

func (r *region) color() imaging.Color {
	return roundMean(r.sum, len(r.own))
}

type entry struct {
	area int
	id   int
}

// regionQueue orders regions by area, then by index.
type regionQueue []entry

func (q regionQueue) Len() int { return len(q) }
func (q regionQueue) Less(i, j int) bool {
	if q[i].area != q[j].area {
		return q[i].area < q[j].area
	}
	return q[i].id < q[j].id
}
func (q regionQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *regionQueue) Push(x any)   { *q = append(*q, x.(entry)) }
func (q *regionQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// mergeRegions builds the layer hierarchy from the labelled components.
func mergeRegions(img *imaging.Raster, labels []int32, comps [][]int, cfg Config) *Clusters {
	w, h := img.Width, img.Height
	regions := make([]*region, len(comps))
	for i, c := range comps {
		r := &region{own: c, area: len(c), border: make(map[int]int)}
		for _, p := range c {
			r.sum[0] += int(img.Pix[p*4])
			r.sum[1] += int(img.Pix[p*4+1])
			r.sum[2] += int(img.Pix[p*4+2])
			r.sum[3] += int(img.Pix[p*4+3])
		}
		regions[i] = r
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := int(labels[y*w+x])
			if x+1 < w {
				if b := int(labels[y*w+x+1]); b != a {
					regions[a].border[b]++
					regions[b].border[a]++
				}
			}
			if y+1 < h {
				if b := int(labels[(y+1)*w+x]); b != a {
					regions[a].border[b]++
					regions[b].border[a]++
				}
			}
		}
	}

	queue := make(regionQueue, len(regions))
	for i, r := range regions {
		queue[i] = entry{area: r.area, id: i}
	}
	heap.Init(&queue)

	var emitted, roots []int
	for queue.Len() > 0 {
		e := heap.Pop(&queue).(entry)
		r := regions[e.id]
		if r.done || r.area != e.area {
			continue
		}
		if len(r.border) == 0 || r.area > cfg.GoodMaxArea {
			r.done, r.emitted = true, true
			emitted = append(emitted, e.id)
			roots = append(roots, e.id)
			continue
		}

		tid := nearestNeighbour(regions, e.id)
		t := regions[tid]
		if r.area >= cfg.GoodMinArea && r.color().Distance(t.color()) >= cfg.DeepenDiff {
			r.emitted = true
			emitted = append(emitted, e.id)
			t.children = append(t.children, e.id)
		} else {
			t.own = append(t.own, r.own...)
			for c := range t.sum {
				t.sum[c] += r.sum[c]
			}
			t.children = append(t.children, r.children...)
			r.own, r.children = nil, nil
		}
		t.area += r.area

		for k, n := range r.border {
			if k == tid {
				continue
			}
			t.border[k] += n
			kb := regions[k].border
			delete(kb, e.id)
			kb[tid] += n
		}
		delete(t.border, e.id)
		r.border = nil
		r.done = true

		if !t.done {
			heap.Push(&queue, entry{area: t.area, id: tid})
		}
	}

	return buildHierarchy(w, h, regions, emitted, roots, cfg)
}

// nearestNeighbour picks the neighbour closest in color to region id. Ties
// go to the longer shared border, then to the lower index.
func nearestNeighbour(regions []*region, id int) int {
	r := regions[id]
	rc := r.color()
	best, bestDist, bestBorder := -1, 0, 0
	for k, n := range r.border {
		d := rc.Distance(regions[k].color())
		switch {
		case best < 0,
			d < bestDist,
			d == bestDist && n > bestBorder,
			d == bestDist && n == bestBorder && k < best:
			best, bestDist, bestBorder = k, d, n
		}
	}
	return best
}

// buildHierarchy turns the emitted regions into clusters, computes their
// levels and shapes, and derives the output order.
func buildHierarchy(w, h int, regions []*region, emitted, roots []int, cfg Config) *Clusters {
	level := make(map[int]int, len(emitted))

	// Pre-order walk: parents are painted before their children.
	var paint []int
	var stack []int
	for _, root := range roots {
		level[root] = 0
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			paint = append(paint, id)
			kids := regions[id].children
			for i := len(kids) - 1; i >= 0; i-- {
				level[kids[i]] = level[id] + 1
				stack = append(stack, kids[i])
			}
		}
	}

	fold := func(child int) bool {
		return cfg.HollowNeighbours > 0 && level[child] < cfg.Hierarchical
	}

	// Children come after their parent in paint order, so walking it
	// backwards completes every child shape before its parent needs it.
	shapes := make(map[int][]int, len(paint))
	for i := len(paint) - 1; i >= 0; i-- {
		id := paint[i]
		r := regions[id]
		shape := append([]int(nil), r.own...)
		for _, c := range r.children {
			if fold(c) {
				shape = append(shape, shapes[c]...)
			}
		}
		shapes[id] = shape
	}

	index := make(map[int]int, len(emitted))
	out := &Clusters{width: w, height: h}
	for _, id := range emitted {
		index[id] = len(out.clusters)
		out.clusters = append(out.clusters, newCluster(shapes[id], regions[id].color(), level[id], w))
	}
	for i := len(paint) - 1; i >= 0; i-- {
		out.output = append(out.output, index[paint[i]])
	}

	if cfg.HollowNeighbours == 0 {
		out.coalesce()
	}
	return out
}

// coalesce joins clusters of identical residue color into the one that
// appears first in the output order. Shapes must not overlap.
func (cs *Clusters) coalesce() {
	first := make(map[imaging.Color]int)
	var output []int
	for _, id := range cs.output {
		c := cs.clusters[id]
		if keep, ok := first[c.residue]; ok {
			cs.clusters[keep].absorb(c)
			continue
		}
		first[c.residue] = id
		output = append(output, id)
	}

	// Renumber so that only surviving clusters remain.
	clusters := make([]*Cluster, len(output))
	for i, id := range output {
		clusters[i] = cs.clusters[id]
		output[i] = i
	}
	cs.clusters, cs.output = clusters, output
}
