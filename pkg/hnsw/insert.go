package hnsw

import (
	"sort"

	"github.com/vecdbgo/vecdb/pkg/errors"
)

// Add inserts n vectors (flattened, row-major) into the graph, assigning
// each a dense id starting at the current ntotal.
//
// Grounded on the original pyvecdb IndexHNSW::add: draw a random level,
// descend greedily from the current entry point down to just above the
// new node's level, then at each layer from the new node's level down to
// 0 run an ef-bounded beam search, connect to the closest up-to-cap
// candidates bidirectionally, and one-sidedly prune any neighbor that now
// exceeds its cap.
func (ix *Index) Add(x []float32, n int) error {
	if n == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := errors.CheckShape(n, ix.d, len(x)); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		vec := x[i*ix.d : (i+1)*ix.d]
		ix.insertOne(vec)
	}
	return nil
}

func (ix *Index) insertOne(vec []float32) {
	id := int64(len(ix.nodes))
	ix.data = append(ix.data, vec...)

	level := ix.randomLevel()
	n := newNode(id, level)
	ix.nodes = append(ix.nodes, n)

	if ix.enterPoint == -1 {
		ix.enterPoint = id
		ix.maxLevel = level
		return
	}

	cur, _ := ix.greedy(vec, ix.enterPoint, ix.maxLevel, level)

	top := level
	if ix.maxLevel < top {
		top = ix.maxLevel
	}

	for l := top; l >= 0; l-- {
		w := ix.searchLayer(vec, cur, ix.efConstruction, l)
		if len(w) == 0 {
			panic("hnsw: searchLayer returned no candidates")
		}

		sort.Slice(w, func(a, b int) bool {
			if w[a].dist != w[b].dist {
				return w[a].dist < w[b].dist
			}
			return w[a].id < w[b].id
		})

		maxDeg := ix.m
		if l == 0 {
			maxDeg = ix.mMax0
		}

		limit := len(w)
		if limit > maxDeg {
			limit = maxDeg
		}

		for j := 0; j < limit; j++ {
			nb := w[j].id
			n.addNeighbor(l, nb)
			ix.nodes[nb].addNeighbor(l, id)
			ix.shrinkIfNeeded(nb, l, maxDeg)
		}

		cur = w[0].id
	}

	if level > ix.maxLevel {
		ix.maxLevel = level
		ix.enterPoint = id
	}
}

// shrinkIfNeeded trims nb's neighbor list at layer l to the cap closest
// members (by exact L2 to nb) if it has grown past cap. This pruning is
// one-sided: the evicted neighbors' own lists are left untouched, so graph
// symmetry can be broken after this point — accepted per the spec.
func (ix *Index) shrinkIfNeeded(nb int64, layer, maxDeg int) {
	cur := ix.nodes[nb].neighbors[layer]
	if len(cur) <= maxDeg {
		return
	}

	scored := make([]candidate, len(cur))
	for i, other := range cur {
		scored[i] = candidate{dist: ix.distBetween(nb, other), id: other}
	}
	sort.Slice(scored, func(a, b int) bool {
		if scored[a].dist != scored[b].dist {
			return scored[a].dist < scored[b].dist
		}
		return scored[a].id < scored[b].id
	})

	kept := make([]int64, maxDeg)
	for i := 0; i < maxDeg; i++ {
		kept[i] = scored[i].id
	}
	ix.nodes[nb].setNeighbors(layer, kept)
}
